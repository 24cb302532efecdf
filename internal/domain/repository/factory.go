package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	PaymentLogs() PaymentLogRepository
	Tables() TableRepository
	Menus() MenuRepository
}
