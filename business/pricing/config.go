package pricing

type Config struct {
	// bounds a discount is expected to fall in; values outside are reported, not clamped
	ExpectedMinDiscount float64
	ExpectedMaxDiscount float64
}

const (
	defaultExpectedMinDiscount = 0.0
	defaultExpectedMaxDiscount = 100.0
)

func DefaultConfig() Config {
	return Config{
		ExpectedMinDiscount: defaultExpectedMinDiscount,
		ExpectedMaxDiscount: defaultExpectedMaxDiscount,
	}
}

func (c Config) withinExpected(discount float64) bool {
	return discount >= c.ExpectedMinDiscount && discount <= c.ExpectedMaxDiscount
}
