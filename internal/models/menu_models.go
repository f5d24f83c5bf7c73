package models

import "time"

// MenuItem is one dish or drink on the editable menu. Prices are whole baht.
type MenuItem struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     int       `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StarterMenu is the menu seeded into an empty database, in insertion order.
var StarterMenu = []LineItem{
	{Name: "ชุดหมูสไลด์", Price: 159},
	{Name: "ชุดเนื้อสไลด์", Price: 199},
	{Name: "ชุดผักรวม", Price: 59},
	{Name: "ลูกชิ้นรวม", Price: 69},
	{Name: "กุ้งสด", Price: 89},
	{Name: "หมึกสด", Price: 79},
	{Name: "ข้าวผัดกระเทียม", Price: 35},
	{Name: "น้ำรีฟิล", Price: 39},
}

// StarterTableCount is the number of tables (T1..Tn) seeded into an empty database.
const StarterTableCount = 9
