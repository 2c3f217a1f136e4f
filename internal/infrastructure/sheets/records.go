package sheets

// Wire-level records for the spreadsheet row store. The sheet keeps every
// value loosely typed; these structs pin the schema per collection so the
// implicit typing never reaches the core. Dates travel as RFC3339 strings,
// absent values as empty strings or omitted fields. The repository layer
// owns the mapping to and from domain types.

// Sheet names recognized by the gateway.
const (
	SheetVehicles  = "Vehicles"
	SheetMutations = "Mutations"
	SheetUsers     = "Users"
)

// VehicleRecord is one row of the Vehicles sheet.
type VehicleRecord struct {
	ID                string `json:"id"`
	PlateNumber       string `json:"plateNumber"`
	Brand             string `json:"brand"`
	Year              int    `json:"year"`
	Color             string `json:"color"`
	Status            string `json:"status"`
	LastServiceDate   string `json:"lastServiceDate,omitempty"`
	LastOilChangeDate string `json:"lastOilChangeDate,omitempty"`
	LastAccuCheckDate string `json:"lastAccuCheckDate,omitempty"`
}

// MutationRecord is one row of the Mutations sheet.
type MutationRecord struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicleId"`
	Driver      string `json:"driver"`
	Destination string `json:"destination"`
	StartTime   string `json:"startTime"`
	StartKm     int    `json:"startKm"`
	DriverPhoto string `json:"driverPhoto,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	EndKm       *int   `json:"endKm,omitempty"`
	Distance    *int   `json:"distance,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
}

// UserRecord is one row of the Users sheet.
type UserRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SheetData is the full snapshot returned by FetchAll.
// Collections absent from the response decode as empty slices.
type SheetData struct {
	Vehicles  []VehicleRecord  `json:"vehicles"`
	Mutations []MutationRecord `json:"mutations"`
	Users     []UserRecord     `json:"users"`
}
