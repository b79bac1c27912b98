package model

// DecodedVehicle holds the attributes the decoding service returned for one
// VIN, plus the classification derived from them. ErrorCode is non-empty
// when the service responded but could not classify the VIN; such rows still
// flow through merge and assembly flagged for operator review.
type DecodedVehicle struct {
	VIN         string
	Make        string
	Model       string
	VehicleType string // declared type, e.g. "TRAILER", "PASSENGER CAR"
	GVWR        string // free-text weight rating
	BodyClass   string
	ModelYear   string
	ErrorCode   string
	ErrorText   string

	// Derived during enrichment.
	Weight          *int
	Category        RatingCategory
	ClassCode       string
	VehicleTypeCode string
}

// BatchError reports a transport-level failure for one decode batch. The
// VINs in the batch simply produce no decoded row; the run continues.
type BatchError struct {
	Batch   int // 1-based batch index
	Size    int
	Message string
}
