package knowledge

// defaultFacts mirrors what the marketing site publishes.
var defaultFacts = CompanyFacts{
	CompanyName:  "Ontario Heating and Cooling",
	Tagline:      "Reliable GTA Heating & Cooling Since 2005",
	Phone:        "+1 416-200-0905",
	Email:        "info@hvacohc.ca",
	Address:      "680 Rexdale Blvd, Etobicoke, ON M9W 0B5",
	ServiceAreas: []string{"Toronto", "Etobicoke", "Mississauga", "Brampton", "Scarborough", "Oakville"},
	Services: []Service{
		{
			ID:          "furnace-repair",
			Title:       "Furnace Repair",
			Description: "Expert diagnostics and repairs for all major heating systems. 24/7 emergency service available.",
			MaxRebate:   5000,
		},
		{
			ID:          "ac-install",
			Title:       "AC Installation",
			Description: "High-efficiency cooling solutions tailored to your home's unique footprint.",
			MaxRebate:   2500,
		},
		{
			ID:          "heat-pumps",
			Title:       "Heat Pumps",
			Description: "The future of home comfort. Eco-friendly heating and cooling in one intelligent system.",
			MaxRebate:   10500,
		},
		{
			ID:          "water-heaters",
			Title:       "Water Heaters",
			Description: "Standard and tankless water heater installation and maintenance.",
			MaxRebate:   1000,
		},
	},
	Programs: []RebateProgram{
		{
			Name:        "Enbridge Home Efficiency Rebate Plus (HER+)",
			MaxAmount:   10000,
			Description: "Up to $10,000 for energy audits and equipment upgrades.",
		},
		{
			Name:        "Save on Energy",
			MaxAmount:   500,
			Description: "Incentives for air-source heat pumps and insulation.",
		},
	},
	HeadlineRebate: 10500,
	ContactServices: []string{
		"Heat Pump Installation",
		"Furnace Repair",
		"AC Installation",
		"Water Heater Service",
		"Emergency Repair",
	},
}

// defaultEntries is matched in declaration order; keep the rebate entry first.
var defaultEntries = []Entry{
	{
		Question: "How much are the rebates?",
		Keywords: []string{"rebate", "money back", "save", "grant", "enbridge", "her+"},
		Answer:   "Homeowners in Ontario can currently access up to $10,500 in total rebates through the Enbridge HER+ and Save on Energy programs, especially for Heat Pump installations.",
	},
	{
		Question: "Do you offer emergency services?",
		Keywords: []string{"emergency", "repair now", "urgent", "24/7", "broken", "night"},
		Answer:   "Yes! We offer 24/7 emergency HVAC services across the GTA. If your furnace or AC fails at night, call us immediately at +1 416-200-0905.",
	},
	{
		Question: "What areas do you serve?",
		Keywords: []string{"area", "location", "serve", "toronto", "mississauga", "brampton", "etobicoke", "where"},
		Answer:   "We serve the entire Greater Toronto Area, including Etobicoke, Mississauga, Brampton, Scarborough, North York, and Oakville.",
	},
	{
		Question: "How long is an installation?",
		Keywords: []string{"install", "time", "how long", "duration", "wait"},
		Answer:   "Most furnace, AC, or Heat Pump installations are completed within a single day (usually 4-8 hours) by our certified team.",
	},
}

var defaultTimeline = []TimelineStep{
	{
		Title:       "Consult & Audit",
		Description: "We perform a thermal efficiency audit of your home to identify the best equipment and rebate pathways.",
	},
	{
		Title:       "Precision Install",
		Description: "Our licensed technicians install your new system with meticulous care, typically in just one day.",
	},
	{
		Title:       "Save & Collect",
		Description: "Start saving on monthly bills immediately. We handle the rebate paperwork for you to get your check fast.",
	},
}

var defaultReviews = []Review{
	{
		Author: "James M.",
		Rating: 5,
		Text:   "Excellent service! They helped us navigate the Enbridge rebates and saved us thousands on our new heat pump.",
		Date:   "January 2024",
	},
	{
		Author: "Sarah L.",
		Rating: 5,
		Text:   "OHC came out at 2 AM for a furnace failure. Fast, professional, and very fair pricing. Highly recommend!",
		Date:   "December 2023",
	},
	{
		Author: "Robert T.",
		Rating: 4,
		Text:   "Smooth installation of our central air. The team was clean and explained everything perfectly.",
		Date:   "June 2023",
	},
}

// Default returns the built-in knowledge base.
func Default() *Base {
	return NewBase(defaultFacts, defaultEntries, defaultTimeline, defaultReviews)
}
