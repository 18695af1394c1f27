package model

// Ministry is read-mostly reference data. Actions and permissions reference
// it by numeric id; name resolution happens only at the API boundary.
type Ministry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Abbrev      string `gorm:"type:varchar(20)" json:"abbrev"`
	Description string `gorm:"type:text" json:"description"`
}

// DefaultMinistries seeds the ministry directory on first boot.
var DefaultMinistries = []Ministry{
	{Name: "Finance", Abbrev: "MFB", Description: "Ministry of Finance and Budget"},
	{Name: "Health", Abbrev: "MSP", Description: "Ministry of Health"},
	{Name: "Education", Abbrev: "MEN", Description: "Ministry of National Education"},
	{Name: "Interior", Abbrev: "MI", Description: "Ministry of the Interior"},
	{Name: "Justice", Abbrev: "MJ", Description: "Ministry of Justice"},
	{Name: "Foreign Affairs", Abbrev: "MAE", Description: "Ministry of Foreign Affairs"},
	{Name: "Agriculture", Abbrev: "MAPE", Description: "Ministry of Agriculture and Fisheries"},
	{Name: "Transport", Abbrev: "MTT", Description: "Ministry of Transport and Tourism"},
}
