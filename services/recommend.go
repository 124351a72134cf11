package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// recommendationRule ties a set of weakness keywords to one piece of
// improvement advice. Rules are evaluated in declaration order and the
// first rule with a matching keyword wins, so more specific concerns
// must come before broader ones.
type recommendationRule struct {
	keywords []string
	advice   string
}

var recommendationRules = []recommendationRule{
	{
		keywords: []string{"delivery", "shipping", "courier", "logistics", "arrived late"},
		advice:   "Evaluate your logistics partner or raise packing standards to speed up shipping operations. Fast delivery directly affects customer satisfaction.",
	},
	{
		keywords: []string{"price", "expensive", "cost", "value"},
		advice:   "Run seasonal campaigns, coupons or multi-buy discounts to improve the price/performance perception. Keep competitor price analyses up to date.",
	},
	{
		keywords: []string{"quality", "material", "broken", "defect", "durab", "lifespan"},
		advice:   "Tighten product quality control processes and review the quality standards across production and the supply chain. Quality issues erode brand loyalty.",
	},
	{
		keywords: []string{"communication", "response", "reply", "support", "unresponsive"},
		advice:   "Use automated reply systems or grow the capacity of your support team to answer customer questions faster. Communication is the foundation of trust.",
	},
	{
		keywords: []string{"size", "sizing", "fit", "too big", "too small"},
		advice:   "Add a detailed size chart and measurement visuals to product descriptions. Clear guidance such as 'true to size' or 'order one size up' reduces returns.",
	},
	{
		keywords: []string{"return", "exchange", "refund"},
		advice:   "Make your return and exchange policies more transparent and easier for customers. Friction in that process is a main source of negative reviews.",
	},
	{
		keywords: []string{"packaging", "package", "box", "careless"},
		advice:   "Reinforce packaging materials (bubble wrap, protective boxes) so products are not damaged in transit.",
	},
	{
		keywords: []string{"wrong", "different", "missing", "incomplete"},
		advice:   "Improve barcode checks in warehouse and dispatch processes to minimize wrong or missing item shipments.",
	},
}

const fallbackRecommendation = "A closer review of this issue and ongoing tracking of customer feedback is recommended."

var weaknessCaser = cases.Lower(language.English)

// GenerateRecommendations maps each weakness to one recommendation,
// order-preserving and always the same length as the input. A given
// weakness string always yields the same advice.
func GenerateRecommendations(weaknesses []string) []string {
	recommendations := make([]string, 0, len(weaknesses))
	for _, weakness := range weaknesses {
		recommendations = append(recommendations, recommendFor(weakness))
	}
	return recommendations
}

func recommendFor(weakness string) string {
	lower := weaknessCaser.String(weakness)
	for _, rule := range recommendationRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.advice
			}
		}
	}
	return fallbackRecommendation
}
