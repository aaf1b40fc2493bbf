package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserEntity{},
		&Entity{},
		&TicketCounter{},
		&Session{},
		&TicketPurchase{},
		&RaffleTicket{},
		&Raffle{},
	)
}
