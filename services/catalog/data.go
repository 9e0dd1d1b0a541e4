package catalog

func entry(brand string, models ...Guitar) []Guitar {
	for i := range models {
		models[i].Brand = brand
	}
	return models
}

// seeded from the dashboard's reference database; MSRPs are list
// prices, not market prices
var guitars = map[string][]Guitar{
	"Fender": entry("Fender",
		Guitar{Model: "Stratocaster", Category: "Electric", Tier: "Standard", MSRP: 799},
		Guitar{Model: "Telecaster", Category: "Electric", Tier: "Standard", MSRP: 799},
		Guitar{Model: "Jazzmaster", Category: "Electric", Tier: "Standard", MSRP: 999},
		Guitar{Model: "Jaguar", Category: "Electric", Tier: "Standard", MSRP: 999},
		Guitar{Model: "Mustang", Category: "Electric", Tier: "Entry", MSRP: 599},
		Guitar{Model: "Player Stratocaster", Category: "Electric", Tier: "Standard", MSRP: 849},
		Guitar{Model: "Player Telecaster", Category: "Electric", Tier: "Standard", MSRP: 849},
		Guitar{Model: "American Professional II Stratocaster", Category: "Electric", Tier: "Professional", MSRP: 1749},
		Guitar{Model: "American Ultra Telecaster", Category: "Electric", Tier: "Professional", MSRP: 2199},
		Guitar{Model: "CD-60S", Category: "Acoustic", Tier: "Entry", MSRP: 199},
	),
	"Gibson": entry("Gibson",
		Guitar{Model: "Les Paul Standard", Category: "Electric", Tier: "Professional", MSRP: 2899},
		Guitar{Model: "Les Paul Studio", Category: "Electric", Tier: "Standard", MSRP: 1599},
		Guitar{Model: "Les Paul Tribute", Category: "Electric", Tier: "Standard", MSRP: 1199},
		Guitar{Model: "SG Standard", Category: "Electric", Tier: "Standard", MSRP: 1899},
		Guitar{Model: "ES-335", Category: "Electric", Tier: "Professional", MSRP: 3199},
		Guitar{Model: "Flying V", Category: "Electric", Tier: "Standard", MSRP: 1899},
		Guitar{Model: "J-45", Category: "Acoustic", Tier: "Professional", MSRP: 2799},
		Guitar{Model: "Hummingbird", Category: "Acoustic", Tier: "Premium", MSRP: 3999},
	),
	"Epiphone": entry("Epiphone",
		Guitar{Model: "Les Paul Standard", Category: "Electric", Tier: "Standard", MSRP: 699},
		Guitar{Model: "Les Paul Studio", Category: "Electric", Tier: "Entry", MSRP: 399},
		Guitar{Model: "SG Standard", Category: "Electric", Tier: "Entry", MSRP: 499},
	),
	"Ibanez": entry("Ibanez",
		Guitar{Model: "RG550", Category: "Electric", Tier: "Standard", MSRP: 799},
		Guitar{Model: "JEM", Category: "Electric", Tier: "Professional", MSRP: 2299},
		Guitar{Model: "AZ", Category: "Electric", Tier: "Standard", MSRP: 1299},
		Guitar{Model: "Artcore", Category: "Electric", Tier: "Standard", MSRP: 499},
		Guitar{Model: "SR", Category: "Bass", Tier: "Standard", MSRP: 599},
	),
	"Yamaha": entry("Yamaha",
		Guitar{Model: "Pacifica", Category: "Electric", Tier: "Entry", MSRP: 399},
		Guitar{Model: "Revstar", Category: "Electric", Tier: "Standard", MSRP: 799},
		Guitar{Model: "FG830", Category: "Acoustic", Tier: "Entry", MSRP: 299},
		Guitar{Model: "C40", Category: "Classical", Tier: "Entry", MSRP: 149},
	),
	"PRS": entry("PRS",
		Guitar{Model: "SE Custom 24", Category: "Electric", Tier: "Standard", MSRP: 899},
		Guitar{Model: "S2 Custom 24", Category: "Electric", Tier: "Professional", MSRP: 1599},
		Guitar{Model: "Silver Sky", Category: "Electric", Tier: "Professional", MSRP: 2699},
		Guitar{Model: "SE Silver Sky", Category: "Electric", Tier: "Standard", MSRP: 899},
		Guitar{Model: "McCarty", Category: "Electric", Tier: "Premium", MSRP: 4700},
	),
	"Martin": entry("Martin",
		Guitar{Model: "D-28", Category: "Acoustic", Tier: "Premium", MSRP: 3499},
		Guitar{Model: "D-18", Category: "Acoustic", Tier: "Professional", MSRP: 2699},
		Guitar{Model: "000-28", Category: "Acoustic", Tier: "Premium", MSRP: 3299},
		Guitar{Model: "Road Series", Category: "Acoustic", Tier: "Entry", MSRP: 499},
	),
	"Taylor": entry("Taylor",
		Guitar{Model: "214ce", Category: "Acoustic", Tier: "Standard", MSRP: 1199},
		Guitar{Model: "314ce", Category: "Acoustic", Tier: "Professional", MSRP: 1999},
		Guitar{Model: "814ce", Category: "Acoustic", Tier: "Premium", MSRP: 4199},
		Guitar{Model: "GS Mini", Category: "Acoustic", Tier: "Standard", MSRP: 599},
	),
	"Squier": entry("Squier",
		Guitar{Model: "Bullet Stratocaster", Category: "Electric", Tier: "Entry", MSRP: 199},
		Guitar{Model: "Affinity Stratocaster", Category: "Electric", Tier: "Entry", MSRP: 249},
		Guitar{Model: "Classic Vibe", Category: "Electric", Tier: "Standard", MSRP: 449},
	),
	"Gretsch": entry("Gretsch",
		Guitar{Model: "G2622 Streamliner", Category: "Electric", Tier: "Standard", MSRP: 599},
		Guitar{Model: "G5420T Electromatic", Category: "Electric", Tier: "Standard", MSRP: 899},
	),
}
