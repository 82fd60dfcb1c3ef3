package dashboard

// FlavorInsight is one row of the popular dishes card.
type FlavorInsight struct {
	Item       string `json:"item"`
	Percentage int    `json:"percentage"`
	Orders     int    `json:"orders"`
}

// Suggestion is one card of the recommendations panel.
type Suggestion struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// No order data reaches this service yet, so flavor insights are fixed.
var flavorInsights = []FlavorInsight{
	{Item: "Truffle Parmesan Fries", Percentage: 87, Orders: 234},
	{Item: "Spicy Tuna Tartare", Percentage: 76, Orders: 189},
	{Item: "Matcha Latte", Percentage: 72, Orders: 178},
	{Item: "Grilled Salmon Bowl", Percentage: 65, Orders: 156},
	{Item: "Chocolate Lava Cake", Percentage: 58, Orders: 142},
}

var suggestions = []Suggestion{
	{
		ID:      1,
		Type:    "insight",
		Title:   "Outdoor Seating Opportunity",
		Message: "40% of your Grangou matches prefer outdoor seating. Consider highlighting your patio section in your app profile!",
		Icon:    "sun",
	},
	{
		ID:      2,
		Type:    "trend",
		Title:   "Weekend Date Nights Trending",
		Message: "Saturday evening bookings through Grangou are up 35% this month. Consider a special weekend tasting menu!",
		Icon:    "trending-up",
	},
	{
		ID:      3,
		Type:    "action",
		Title:   "Respond to Recent Reviews",
		Message: "You have 3 unacknowledged guest experiences. Responding to reviews can boost your visibility on Grangou.",
		Icon:    "message-circle",
	},
}

// Flavors returns a copy of the flavor insights.
func (s *DashboardService) Flavors() []FlavorInsight {
	return append([]FlavorInsight(nil), flavorInsights...)
}

// Suggestions returns a copy of the recommendation cards.
func (s *DashboardService) Suggestions() []Suggestion {
	return append([]Suggestion(nil), suggestions...)
}
