package models

// TrendPoint - количество сообщений за один календарный день
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DisasterBreakdown - разбивка текущих сообщений по категориям
type DisasterBreakdown struct {
	ByType     map[DisasterType]int
	BySeverity map[Severity]int
	ByStatus   map[Status]int
}

type Stats struct {
	PendingCount        int
	InProgressCount     int
	ResolvedCount       int
	ActiveResponders    int
	TodayReports        int
	DisastersByType     map[DisasterType]int
	DisastersBySeverity map[Severity]int
	DisastersByStatus   map[Status]int
	DisastersTrend      []TrendPoint
}

// NewDisasterBreakdown возвращает разбивку с пустыми картами
func NewDisasterBreakdown() *DisasterBreakdown {
	return &DisasterBreakdown{
		ByType:     make(map[DisasterType]int),
		BySeverity: make(map[Severity]int),
		ByStatus:   make(map[Status]int),
	}
}
