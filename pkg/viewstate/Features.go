package viewstate

/*
Features switches the optional pieces of the portfolio view on or off. One
machine serves every layout variant; the variants differ only here.
*/
type Features struct {
	ParallaxHero     bool
	ContactSheet     bool
	LocationGrouping bool
}

func AllFeatures() Features {
	return Features{
		ParallaxHero:     true,
		ContactSheet:     true,
		LocationGrouping: true,
	}
}
