package entity

import "time"

// APILog records one outbound call to a news provider. Rows are append-only.
type APILog struct {
	ID             int64
	APISource      string
	Endpoint       string
	StatusCode     int
	ResponseTimeMS int64
	ErrorMessage   *string
	CreatedAt      time.Time
}

// Failed reports whether the call ended with an error or a non-2xx status.
func (l *APILog) Failed() bool {
	return l.ErrorMessage != nil || l.StatusCode >= 400
}

// APIStat summarizes the calls made to one provider.
type APIStat struct {
	Source        string
	TotalCalls    int64
	ErrorCalls    int64
	AvgResponseMS float64
	MaxResponseMS int64
}

// SuccessRate returns the share of successful calls as a percentage.
func (s APIStat) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.TotalCalls-s.ErrorCalls) / float64(s.TotalCalls) * 100
}

// SourceCount is the number of stored articles for one source name.
type SourceCount struct {
	SourceName string
	Count      int64
}
