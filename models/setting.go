package models

// TestSetting is one MCB test configuration document from the settings
// collection. Documents are imported from JSON and carry more fields than
// listed here; only the ones the tooling displays are mapped.
type TestSetting struct {
	ID              string `bson:"_id" json:"_id"`
	MCBModel        string `bson:"mcbModel" json:"mcbModel"`
	TestDesignation string `bson:"testDesignation" json:"testDesignation"`
}
