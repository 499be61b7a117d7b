package schema

// NFTRegistryTable represents the 'nft.registry' table
type NFTRegistryTable struct {
	Table     string
	ID        string
	Spec      string
	Name      string
	Symbol    string
	Icon      string
	BaseURI   string
	Owner     string
	Source    string
	CreatedAt string
	UpdatedAt string
}

// NFTRegistry is the schema definition for nft.registry
var NFTRegistry = NFTRegistryTable{
	Table:     "nft.registry",
	ID:        "id",
	Spec:      "spec",
	Name:      "name",
	Symbol:    "symbol",
	Icon:      "icon",
	BaseURI:   "baseuri",
	Owner:     "owner",
	Source:    "source",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t NFTRegistryTable) Columns() []string {
	return []string{
		t.ID, t.Spec, t.Name, t.Symbol, t.Icon, t.BaseURI, t.Owner,
		t.Source, t.CreatedAt, t.UpdatedAt,
	}
}
