package model

// Document сформированный файл (билет, счёт)
type Document struct {
	Filename string
	Caption  string
	Data     []byte
}
