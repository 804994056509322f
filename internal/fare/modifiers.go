package fare

import "time"

// Bucket временной интервал, влияющий на цену
type Bucket string

const (
	BucketWeekdayMorningPeak Bucket = "weekday_morning_peak"
	BucketWeekdayDaytime     Bucket = "weekday_daytime"
	BucketWeekdayEveningPeak Bucket = "weekday_evening_peak"
	BucketWeekdayNight       Bucket = "weekday_night"
	BucketWeekendDay         Bucket = "weekend_day"
	BucketWeekendNight       Bucket = "weekend_night"
)

var bucketMultipliers = map[Bucket]float64{
	BucketWeekdayMorningPeak: 1.10,
	BucketWeekdayDaytime:     1.00,
	BucketWeekdayEveningPeak: 1.10,
	BucketWeekdayNight:       0.90,
	BucketWeekendDay:         1.15,
	BucketWeekendNight:       1.05,
}

// TimeMultiplier определяет интервал по часу и дню недели момента at
func TimeMultiplier(at time.Time) (Bucket, float64) {
	b := bucketFor(at)
	return b, bucketMultipliers[b]
}

func bucketFor(at time.Time) Bucket {
	hour := at.Hour()
	day := hour >= 6 && hour < 22

	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		if day {
			return BucketWeekendDay
		}
		return BucketWeekendNight
	}

	switch {
	case hour >= 6 && hour < 10:
		return BucketWeekdayMorningPeak
	case hour >= 10 && hour < 17:
		return BucketWeekdayDaytime
	case hour >= 17 && hour < 22:
		return BucketWeekdayEveningPeak
	default:
		return BucketWeekdayNight
	}
}
