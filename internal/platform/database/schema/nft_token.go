package schema

// NFTTokenTable represents the 'nft.token' table
type NFTTokenTable struct {
	Table          string
	ID             string
	SeriesID       string
	Seq            string
	Owner          string
	Approvals      string
	NextApprovalID string
	MetaVersion    string
	AssetID        string
	Filetype       string
	Extra          string
	CreatedAt      string
	UpdatedAt      string
}

// NFTToken is the schema definition for nft.token
var NFTToken = NFTTokenTable{
	Table:          "nft.token",
	ID:             "id",
	SeriesID:       "seriesid",
	Seq:            "seq",
	Owner:          "owner",
	Approvals:      "approvals",
	NextApprovalID: "nextapprovalid",
	MetaVersion:    "metaversion",
	AssetID:        "assetid",
	Filetype:       "filetype",
	Extra:          "extra",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t NFTTokenTable) Columns() []string {
	return []string{
		t.ID, t.SeriesID, t.Seq, t.Owner, t.Approvals, t.NextApprovalID,
		t.MetaVersion, t.AssetID, t.Filetype, t.Extra, t.CreatedAt, t.UpdatedAt,
	}
}
