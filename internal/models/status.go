package models

// RequestStatus — статус запроса на делегирование
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
	RequestExpired  RequestStatus = "Expired"
)

// QuotaPeriod — окно квоты
type QuotaPeriod string

const (
	PeriodDaily   QuotaPeriod = "daily"
	PeriodWeekly  QuotaPeriod = "weekly"
	PeriodMonthly QuotaPeriod = "monthly"
)

// Valid сообщает, известно ли окно
func (p QuotaPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}
