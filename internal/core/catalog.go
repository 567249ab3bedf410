package core

// catalog.go holds the built-in provider profiles and the shared merchant
// rewrite table.
//
// Both are ordered slices: the first matching merchant pattern wins, and
// earlier providers win detection ties. Longer, more specific patterns must
// come before the shorter patterns they contain (AMZN MKTP before AMZN).

// builtinProviders returns the catalog in registry order, generic last.
func builtinProviders() []CardProvider {
	return []CardProvider{
		{
			ID:               "amex",
			Name:             "American Express",
			Description:      "Amex Corporate Card exports",
			DateColumns:      []string{"date", "transaction date", "post date", "posted date"},
			AmountColumns:    []string{"amount", "charge amount", "debit", "credit"},
			MerchantColumns:  []string{"description", "merchant", "payee", "vendor"},
			CategoryColumns:  []string{"category", "expense category", "type"},
			ReferenceColumns: []string{"reference", "ref #", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"AMZN MKTP", "Amazon Marketplace"},
				{"AMZN", "Amazon"},
				{"AMAZON.COM", "Amazon"},
				{"AMAZON WEB", "Amazon Web Services"},
			},
		},
		{
			ID:               "chase",
			Name:             "Chase",
			Description:      "Chase Ink, United, Sapphire exports",
			DateColumns:      []string{"transaction date", "post date", "date"},
			AmountColumns:    []string{"amount", "transaction amount"},
			MerchantColumns:  []string{"description", "merchant name", "name"},
			CategoryColumns:  []string{"category", "type"},
			ReferenceColumns: []string{"reference number", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"TST*", "Toast"},
				{"SQ *", "Square"},
				{"PAYPAL *", "PayPal"},
				{"CHASE ", "Chase Bank"},
			},
		},
		{
			ID:               "capital-one",
			Name:             "Capital One",
			Description:      "Capital One Spark Business exports",
			DateColumns:      []string{"transaction date", "posted date", "date"},
			AmountColumns:    []string{"debit", "credit", "amount"},
			MerchantColumns:  []string{"description", "payee", "merchant"},
			CategoryColumns:  []string{"category"},
			ReferenceColumns: []string{"card no.", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"CAPITAL ONE", "Capital One"},
				{"CAPITALONE", "Capital One"},
			},
		},
		{
			ID:               "wells-fargo",
			Name:             "Wells Fargo",
			Description:      "Wells Fargo Business Card exports",
			DateColumns:      []string{"date", "transaction date", "post date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"description", "payee"},
			CategoryColumns:  []string{"category", "type"},
			ReferenceColumns: []string{"reference", "check number"},
			MerchantPatterns: []MerchantPattern{
				{"WELLS FARGO", "Wells Fargo"},
				{"WF ", "Wells Fargo"},
			},
		},
		{
			ID:               "citi",
			Name:             "Citibank",
			Description:      "Citi Business Card exports",
			DateColumns:      []string{"date", "transaction date", "posted"},
			AmountColumns:    []string{"debit", "credit", "amount"},
			MerchantColumns:  []string{"description", "merchant"},
			CategoryColumns:  []string{"category"},
			ReferenceColumns: []string{"reference"},
			MerchantPatterns: []MerchantPattern{
				{"CITI ", "Citibank"},
				{"CITIBANK", "Citibank"},
			},
		},
		{
			ID:               "bank-of-america",
			Name:             "Bank of America",
			Description:      "BofA Business Card exports",
			DateColumns:      []string{"posted date", "transaction date", "date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"payee", "description", "merchant"},
			CategoryColumns:  []string{"category"},
			ReferenceColumns: []string{"reference number", "check number"},
			MerchantPatterns: []MerchantPattern{
				{"BANK OF AMER", "Bank of America"},
				{"BOFA", "Bank of America"},
				{"BA ELECTRONIC", "Bank of America"},
			},
		},
		{
			ID:               "us-bank",
			Name:             "U.S. Bank",
			Description:      "U.S. Bank Business Card exports",
			DateColumns:      []string{"date", "transaction date", "post date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"name", "description", "merchant"},
			CategoryColumns:  []string{"category", "memo"},
			ReferenceColumns: []string{"reference", "transaction number"},
			MerchantPatterns: []MerchantPattern{
				{"US BANK", "U.S. Bank"},
				{"USB ", "U.S. Bank"},
			},
		},
		{
			ID:               "barclays",
			Name:             "Barclays",
			Description:      "Barclays Business Card exports",
			DateColumns:      []string{"transaction date", "date", "posted date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"description", "merchant name", "payee"},
			CategoryColumns:  []string{"category", "transaction type"},
			ReferenceColumns: []string{"reference", "transaction ref"},
			MerchantPatterns: []MerchantPattern{
				{"BARCLAYCARD", "Barclays"},
				{"BARCLAYS", "Barclays"},
			},
		},
		{
			ID:               "discover",
			Name:             "Discover",
			Description:      "Discover Business Card exports",
			DateColumns:      []string{"trans. date", "transaction date", "post date"},
			AmountColumns:    []string{"amount"},
			MerchantColumns:  []string{"description"},
			CategoryColumns:  []string{"category"},
			ReferenceColumns: []string{"reference"},
			MerchantPatterns: []MerchantPattern{
				{"DISCOVER", "Discover"},
			},
		},
		{
			ID:               "svb",
			Name:             "Silicon Valley Bank",
			Description:      "SVB Card exports",
			DateColumns:      []string{"date", "transaction date", "value date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"description", "narrative", "payee"},
			CategoryColumns:  []string{"type", "category"},
			ReferenceColumns: []string{"reference", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"SVB", "Silicon Valley Bank"},
				{"SILICON VALLEY", "Silicon Valley Bank"},
			},
		},
		{
			ID:               "brex",
			Name:             "Brex",
			Description:      "Brex Corporate Card exports",
			DateColumns:      []string{"date", "posted date", "transaction date"},
			AmountColumns:    []string{"amount", "usd amount"},
			MerchantColumns:  []string{"merchant", "description", "vendor"},
			CategoryColumns:  []string{"category", "expense category"},
			ReferenceColumns: []string{"id", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"BREX", "Brex"},
			},
		},
		{
			ID:               "ramp",
			Name:             "Ramp",
			Description:      "Ramp Corporate Card exports",
			DateColumns:      []string{"date", "transaction date"},
			AmountColumns:    []string{"amount", "usd amount"},
			MerchantColumns:  []string{"merchant", "merchant name", "vendor"},
			CategoryColumns:  []string{"category", "accounting category"},
			ReferenceColumns: []string{"id", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"RAMP", "Ramp"},
			},
		},
		{
			ID:               "divvy",
			Name:             "Divvy (Bill.com)",
			Description:      "Divvy Card exports",
			DateColumns:      []string{"date", "transaction date", "posted date"},
			AmountColumns:    []string{"amount"},
			MerchantColumns:  []string{"merchant", "vendor", "description"},
			CategoryColumns:  []string{"budget", "category"},
			ReferenceColumns: []string{"transaction id", "id"},
			MerchantPatterns: []MerchantPattern{
				{"DIVVY", "Divvy"},
				{"BILL.COM", "Bill.com"},
			},
		},
		{
			ID:               "stripe",
			Name:             "Stripe Issuing",
			Description:      "Stripe Issuing Card exports",
			DateColumns:      []string{"created", "date", "created_at"},
			AmountColumns:    []string{"amount", "net"},
			MerchantColumns:  []string{"merchant_name", "description"},
			CategoryColumns:  []string{"merchant_category", "category"},
			ReferenceColumns: []string{"id", "authorization_id"},
			MerchantPatterns: []MerchantPattern{
				{"STRIPE", "Stripe"},
			},
		},
		{
			ID:               "mercury",
			Name:             "Mercury",
			Description:      "Mercury Card exports",
			DateColumns:      []string{"date", "posted date"},
			AmountColumns:    []string{"amount", "debit", "credit"},
			MerchantColumns:  []string{"description", "merchant", "counterparty"},
			CategoryColumns:  []string{"category"},
			ReferenceColumns: []string{"id", "transaction id"},
			MerchantPatterns: []MerchantPattern{
				{"MERCURY", "Mercury"},
			},
		},
		{
			ID:               GenericProviderID,
			Name:             "Generic CSV",
			Description:      "Auto-detect columns",
			DateColumns:      []string{"date", "transaction date", "posted date", "post date", "trans date", "trans. date", "value date", "created", "created_at"},
			AmountColumns:    []string{"amount", "debit", "credit", "charge", "total", "sum", "net", "usd amount", "transaction amount"},
			MerchantColumns:  []string{"description", "merchant", "payee", "vendor", "name", "merchant name", "narrative", "counterparty"},
			CategoryColumns:  []string{"category", "type", "expense category", "memo", "budget"},
			ReferenceColumns: []string{"reference", "ref", "id", "transaction id", "check number", "reference number"},
		},
	}
}

// CommonMerchantPatterns applies to every provider, after the provider's own patterns.
var CommonMerchantPatterns = []MerchantPattern{
	{"AMZN MKTP", "Amazon Marketplace"},
	{"AMZN", "Amazon"},
	{"AMAZON.COM", "Amazon"},
	{"AMAZON WEB", "Amazon Web Services"},
	{"UBER TRIP", "Uber"},
	{"UBER EATS", "Uber Eats"},
	{"UBER*", "Uber"},
	{"LYFT *RIDE", "Lyft"},
	{"LYFT *", "Lyft"},
	{"SQ *", "Square"},
	{"SQUARE *", "Square"},
	{"STARBUCKS", "Starbucks"},
	{"SBUX", "Starbucks"},
	{"MCDONALDS", "McDonalds"},
	{"MCD", "McDonalds"},
	{"DOORDASH", "DoorDash"},
	{"DD *", "DoorDash"},
	{"GRUBHUB", "Grubhub"},
	{"GH *", "Grubhub"},
	{"POSTMATES", "Postmates"},
	{"TST*", "Toast"},
	{"TOAST *", "Toast"},
	{"PAYPAL *", "PayPal"},
	{"PP*", "PayPal"},
	{"VENMO", "Venmo"},
	{"ZELLE", "Zelle"},
	{"GOOGLE *", "Google"},
	{"GOOGL *", "Google"},
	{"APPLE.COM", "Apple"},
	{"APPLE *", "Apple"},
	{"MSFT *", "Microsoft"},
	{"MICROSOFT", "Microsoft"},
	{"ZOOM.US", "Zoom"},
	{"ZOOM VIDEO", "Zoom"},
	{"SLACK", "Slack"},
	{"NOTION", "Notion"},
	{"FIGMA", "Figma"},
	{"GITHUB", "GitHub"},
	{"ATLASSIAN", "Atlassian"},
	{"DROPBOX", "Dropbox"},
	{"MAILCHIMP", "Mailchimp"},
	{"HUBSPOT", "HubSpot"},
	{"SALESFORCE", "Salesforce"},
	{"SHOPIFY", "Shopify"},
	{"STRIPE", "Stripe"},
	{"WIX.COM", "Wix"},
	{"SQUARESPACE", "Squarespace"},
	{"GODADDY", "GoDaddy"},
	{"NAMECHEAP", "Namecheap"},
	{"CLOUDFLARE", "Cloudflare"},
	{"HEROKU", "Heroku"},
	{"DIGITALOCEAN", "DigitalOcean"},
	{"LINODE", "Linode"},
	{"NETLIFY", "Netlify"},
	{"VERCEL", "Vercel"},
	{"LINKEDIN", "LinkedIn"},
	{"FACEBOOK", "Meta"},
	{"FB *", "Meta"},
	{"TWITTER", "X (Twitter)"},
	{"X.COM", "X (Twitter)"},
	{"DELTA", "Delta Airlines"},
	{"UNITED", "United Airlines"},
	{"AMERICAN AIR", "American Airlines"},
	{"SOUTHWEST", "Southwest Airlines"},
	{"JETBLUE", "JetBlue"},
	{"HILTON", "Hilton"},
	{"MARRIOTT", "Marriott"},
	{"HYATT", "Hyatt"},
	{"IHG", "IHG Hotels"},
	{"AIRBNB", "Airbnb"},
	{"VRBO", "VRBO"},
	{"EXPEDIA", "Expedia"},
	{"BOOKING.COM", "Booking.com"},
	{"HERTZ", "Hertz"},
	{"ENTERPRISE", "Enterprise"},
	{"AVIS", "Avis"},
	{"NATIONAL CAR", "National"},
	{"COSTCO", "Costco"},
	{"WALMART", "Walmart"},
	{"TARGET", "Target"},
	{"BESTBUY", "Best Buy"},
	{"BEST BUY", "Best Buy"},
	{"HOMEDEPOT", "Home Depot"},
	{"HOME DEPOT", "Home Depot"},
	{"LOWES", "Lowes"},
	{"OFFICE DEPOT", "Office Depot"},
	{"STAPLES", "Staples"},
	{"CVS", "CVS"},
	{"WALGREENS", "Walgreens"},
	{"FEDEX", "FedEx"},
	{"UPS", "UPS"},
	{"USPS", "USPS"},
	{"DHL", "DHL"},
	{"SHELL", "Shell"},
	{"CHEVRON", "Chevron"},
	{"EXXON", "ExxonMobil"},
	{"BP ", "BP"},
	{"COMCAST", "Comcast"},
	{"VERIZON", "Verizon"},
	{"ATT*", "AT&T"},
	{"AT&T", "AT&T"},
	{"T-MOBILE", "T-Mobile"},
	{"SPRINT", "Sprint"},
}
