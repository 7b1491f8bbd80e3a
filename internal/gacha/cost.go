package gacha

// Cost is what one banner pull is priced at.
type Cost struct {
	// Currency names the wallet tier the price is charged in.
	Currency string `yaml:"currency" json:"currency"`
	Single   int64  `yaml:"single" json:"single"`
	// Ten is the bundle price of a ten-pull; 0 means ten singles.
	Ten int64 `yaml:"ten" json:"ten"`
}

// ForPulls returns the price of n pulls, using the ten-pull bundle for every
// full group of ten.
func (c Cost) ForPulls(n int) int64 {
	if n <= 0 {
		return 0
	}
	if c.Ten > 0 && n >= 10 {
		tens := int64(n / 10)
		rem := int64(n % 10)
		return tens*c.Ten + rem*c.Single
	}
	return int64(n) * c.Single
}
