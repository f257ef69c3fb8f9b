package dto

// TimeLayout wire format of every timestamp (ISO-8601)
const TimeLayout = "2006-01-02T15:04:05Z07:00"
