package schema

// NFTSeriesTable represents the 'nft.series' table
type NFTSeriesTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Description string
	Media       string
	Copies      string
	CoverAsset  string
	Owner       string
	Royalty     string
	AssetPool   string
	CreatedAt   string
	UpdatedAt   string
}

// NFTSeries is the schema definition for nft.series
var NFTSeries = NFTSeriesTable{
	Table:       "nft.series",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Media:       "media",
	Copies:      "copies",
	CoverAsset:  "coverasset",
	Owner:       "owner",
	Royalty:     "royalty",
	AssetPool:   "assetpool",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t NFTSeriesTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.Media, t.Copies,
		t.CoverAsset, t.Owner, t.Royalty, t.AssetPool, t.CreatedAt, t.UpdatedAt,
	}
}
