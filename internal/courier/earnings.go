package courier

// EarningsPeriod selects an earnings summary window
type EarningsPeriod string

const (
	PeriodToday EarningsPeriod = "today"
	PeriodWeek  EarningsPeriod = "week"
	PeriodMonth EarningsPeriod = "month"
)

// EarningsEntry is one completed delivery in the daily detail list
type EarningsEntry struct {
	ID       uint    `json:"id"`
	Time     string  `json:"time"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Distance string  `json:"distance"`
	Customer string  `json:"customer"`
}

// EarningsSummary aggregates a courier's earnings over a period
type EarningsSummary struct {
	Period         EarningsPeriod  `json:"period"`
	Total          float64         `json:"total"`
	Deliveries     int             `json:"deliveries"`
	Hours          float64         `json:"hours"`
	AvgPerDelivery float64         `json:"avgPerDelivery"`
	Details        []EarningsEntry `json:"details,omitempty"`
}

// PerHour derives the hourly rate for the period
func (s EarningsSummary) PerHour() float64 {
	if s.Hours == 0 {
		return 0
	}
	return s.Total / s.Hours
}

// Simulated earnings; there is no settlement backend.
var earningsData = map[EarningsPeriod]EarningsSummary{
	PeriodToday: {
		Period:         PeriodToday,
		Total:          156.50,
		Deliveries:     8,
		Hours:          6.5,
		AvgPerDelivery: 19.56,
		Details: []EarningsEntry{
			{ID: 1, Time: "14:30", Type: "Wendy Shop", Amount: 18.50, Distance: "3.8 km", Customer: "João Santos"},
			{ID: 2, Time: "13:45", Type: "Moto Entregador", Amount: 12.00, Distance: "2.5 km", Customer: "Maria Silva"},
			{ID: 3, Time: "12:20", Type: "Wendy Shop", Amount: 25.00, Distance: "5.2 km", Customer: "Pedro Costa"},
			{ID: 4, Time: "11:15", Type: "Moto Entregador", Amount: 8.00, Distance: "1.2 km", Customer: "Ana Lima"},
			{ID: 5, Time: "10:30", Type: "Wendy Shop", Amount: 32.00, Distance: "6.8 km", Customer: "Carlos Oliveira"},
			{ID: 6, Time: "09:45", Type: "Moto Entregador", Amount: 15.00, Distance: "3.1 km", Customer: "Lucia Santos"},
			{ID: 7, Time: "09:00", Type: "Wendy Shop", Amount: 22.00, Distance: "4.5 km", Customer: "Roberto Silva"},
			{ID: 8, Time: "08:30", Type: "Moto Entregador", Amount: 24.00, Distance: "7.2 km", Customer: "Fernanda Costa"},
		},
	},
	PeriodWeek: {
		Period:         PeriodWeek,
		Total:          892.30,
		Deliveries:     45,
		Hours:          38.5,
		AvgPerDelivery: 19.83,
	},
	PeriodMonth: {
		Period:         PeriodMonth,
		Total:          3456.80,
		Deliveries:     178,
		Hours:          152.3,
		AvgPerDelivery: 19.42,
	},
}

// EarningsFor returns the summary for a period
func EarningsFor(period EarningsPeriod) (EarningsSummary, bool) {
	summary, ok := earningsData[period]
	return summary, ok
}
