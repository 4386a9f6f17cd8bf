package common

// FoodCheckResult 食物門檻判斷結果
// Reason 只在 IsFood 為 false 時有意義
type FoodCheckResult struct {
	IsFood bool   `json:"isFood"`
	Reason string `json:"reason"`
}

// FoodAnalysis 完整分析結果，所有欄位皆為必填
type FoodAnalysis struct {
	FoodName              string         `json:"foodName"`
	Recipe                Recipe         `json:"recipe"`
	Nutrition             Nutrition      `json:"nutrition"`
	HealthAnalysis        HealthAnalysis `json:"healthAnalysis"`
	SmartTips             SmartTips      `json:"smartTips"`
	ServingSuggestion     string         `json:"servingSuggestion"`
	ConsumptionSuggestion string         `json:"consumptionSuggestion"`
	ConsumptionTime       string         `json:"consumptionTime"`
	FlavorProfile         string         `json:"flavorProfile"`
	FoodPairing           FoodPairing    `json:"foodPairing"`
}

// Recipe 食譜
type Recipe struct {
	Ingredients   []string `json:"ingredients"`
	Instructions  []string `json:"instructions"` // 依序執行的步驟
	CookingTime   string   `json:"cookingTime"`
	EstimatedCost string   `json:"estimatedCost"`
}

// Nutrition 每份營養資訊（數值+單位的文字，不做數值解析）
type Nutrition struct {
	Calories            string `json:"calories"`
	TotalFat            string `json:"totalFat"`
	Cholesterol         string `json:"cholesterol"`
	Sodium              string `json:"sodium"`
	TotalCarbohydrates  string `json:"totalCarbohydrates"`
	Protein             string `json:"protein"`
	Sugar               string `json:"sugar"`
	VitaminsAndMinerals string `json:"vitaminsAndMinerals"`
}

// HealthAnalysis 健康分析
type HealthAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveEffects []string `json:"positiveEffects"`
	PotentialRisks  []string `json:"potentialRisks"`
}

// SmartTips 小知識與省錢建議
type SmartTips struct {
	EducationalTip string `json:"educationalTip"`
	SavingTip      string `json:"savingTip"`
}

// FoodPairing 清真搭配建議
type FoodPairing struct {
	DrinkPairings []string `json:"drinkPairings"`
	FoodPairings  []string `json:"foodPairings"`
}
