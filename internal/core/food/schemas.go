package food

import (
	"foodsnap-api/internal/core/ai/schema"
)

// FoodCheckSchema 門檻判斷的輸出結構
var FoodCheckSchema = func() *schema.Schema {
	s := schema.NewObject("",
		schema.Prop("isFood", schema.NewBoolean("True if the image contains edible food or a drink.")),
		schema.Prop("reason", schema.NewString("Reason for rejection if not food.")),
	)
	s.Name = "food_check"
	return s
}()

// FoodAnalysisSchema 完整分析的輸出結構，所有欄位與巢狀物件皆為必填
var FoodAnalysisSchema = func() *schema.Schema {
	s := schema.NewObject("",
		schema.Prop("foodName", schema.NewString("Nama makanan yang teridentifikasi dalam bahasa Indonesia.")),
		schema.Prop("recipe", schema.NewObject("",
			schema.Prop("ingredients", schema.NewStringArray("Daftar bahan-bahan yang dibutuhkan beserta takarannya.")),
			schema.Prop("instructions", schema.NewStringArray("Langkah-langkah memasak secara terstruktur dan jelas.")),
			schema.Prop("cookingTime", schema.NewString("Estimasi waktu memasak, contoh: '45 menit'.")),
			schema.Prop("estimatedCost", schema.NewString("Estimasi biaya pembuatan dalam Rupiah (IDR), contoh: 'Rp 50.000 - Rp 75.000'.")),
		)),
		schema.Prop("nutrition", schema.NewObject("",
			schema.Prop("calories", schema.NewString("Energi total per porsi dalam kkal, contoh: '350 kkal'.")),
			schema.Prop("totalFat", schema.NewString("Lemak total per porsi dalam gram, contoh: '15g'.")),
			schema.Prop("cholesterol", schema.NewString("Kolesterol per porsi dalam miligram, contoh: '75mg'.")),
			schema.Prop("sodium", schema.NewString("Natrium per porsi dalam miligram, contoh: '500mg'.")),
			schema.Prop("totalCarbohydrates", schema.NewString("Karbohidrat total per porsi dalam gram, contoh: '40g'.")),
			schema.Prop("protein", schema.NewString("Jumlah protein per porsi dalam gram, contoh: '20g'.")),
			schema.Prop("sugar", schema.NewString("Kadar gula per porsi dalam gram, contoh: '10g'.")),
			schema.Prop("vitaminsAndMinerals", schema.NewString("Daftar vitamin dan mineral utama yang signifikan, contoh: 'Vitamin A, Kalsium, Zat Besi'.")),
		)),
		schema.Prop("healthAnalysis", schema.NewObject("Analisis kesehatan yang mendalam.",
			schema.Prop("summary", schema.NewString("Ringkasan saran kesehatan umum terkait makanan ini.")),
			schema.Prop("positiveEffects", schema.NewStringArray("Daftar efek positif dari mengonsumsi makanan ini bagi kesehatan.")),
			schema.Prop("potentialRisks", schema.NewStringArray("Daftar potensi risiko atau hal yang perlu diperhatikan, terutama untuk kondisi kesehatan tertentu.")),
		)),
		schema.Prop("smartTips", schema.NewObject("Tips cerdas terkait makanan.",
			schema.Prop("educationalTip", schema.NewString("Satu fakta menarik atau tips edukasi tentang sejarah, bahan, atau manfaat makanan ini.")),
			schema.Prop("savingTip", schema.NewString("Satu tips praktis untuk menghemat biaya saat membeli bahan atau memasak makanan ini.")),
		)),
		schema.Prop("servingSuggestion", schema.NewString("Saran cara terbaik menyajikan makanan ini, contoh: 'Sajikan selagi hangat dengan taburan bawang goreng'.")),
		schema.Prop("consumptionSuggestion", schema.NewString("Saran konsumsi umum, contoh: 'Baik dikonsumsi sebagai lauk pendamping nasi' atau 'Cocok dinikmati bersama teh hangat'.")),
		schema.Prop("consumptionTime", schema.NewString("Waktu yang paling cocok untuk mengonsumsi makanan ini, contoh: 'Sarapan', 'Makan Siang', 'Makan Malam', atau 'Camilan Sore'.")),
		schema.Prop("flavorProfile", schema.NewString("Deskripsi naratif tentang profil rasa makanan ini (misalnya, gurih, manis, pedas, umami) dan teksturnya.")),
		schema.Prop("foodPairing", schema.NewObject("Saran padu padan makanan dan minuman halal.",
			schema.Prop("drinkPairings", schema.NewStringArray("Daftar saran minuman halal yang cocok (hindari minuman beralkohol).")),
			schema.Prop("foodPairings", schema.NewStringArray("Daftar saran makanan pendamping halal yang melengkapi makanan ini (hindari babi atau bahan non-halal lainnya).")),
		)),
	)
	s.Name = "food_analysis"
	return s
}()
