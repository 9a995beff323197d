package cache

// BoundsKeyOpts are the inputs a bounds table depends on besides the ratios.
type BoundsKeyOpts struct {
	Width         float64 `json:"width"`
	MinItemHeight float64 `json:"min_item_height"`
	ColumnSpacing float64 `json:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing"`
	DefaultRatio  float64 `json:"default_ratio"`
	ItemCount     int     `json:"item_count"`
}

// Keyer builds cache keys.
type Keyer interface {
	// BoundsKey is the key of the table computed for a dataset.
	BoundsKey(datasetHash string, opts BoundsKeyOpts) string
	// DatasetKey is the key of an uploaded dataset.
	DatasetKey(datasetHash string) string
}

// DefaultKeyer produces keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BoundsKey implements Keyer.
func (DefaultKeyer) BoundsKey(datasetHash string, opts BoundsKeyOpts) string {
	return hashKey("bounds", datasetHash, opts)
}

// DatasetKey implements Keyer.
func (DefaultKeyer) DatasetKey(datasetHash string) string {
	return "dataset:" + datasetHash
}
