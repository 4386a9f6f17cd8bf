package food

import "foodsnap-api/internal/pkg/common"

// gatePrompt 第一段請求：只判斷是否為食物或飲料
var gatePrompt = `You are a strict food detection system. Your only task is to determine if the image contains edible food or a drink.
- If the image contains humans, animals, landscapes, non-food objects, buildings, or religious activities, it is NOT food.
- Respond ONLY with JSON that adheres to the provided schema.
- If it IS food or a drink, set "isFood" to true and "reason" to an empty string.
- If it is NOT food or a drink, set "isFood" to false and "reason" must be exactly this string: "` + common.NotFoodReason + `"`

// analysisPrompt 第二段請求：完整的食譜、營養與搭配分析（清真限定）
const analysisPrompt = `Analisis gambar makanan ini secara mendalam sebagai seorang ahli kuliner dan gizi dengan fokus pada makanan halal. Berikan respons dalam format JSON sesuai skema. Hindari semua saran yang mengandung bahan non-halal seperti babi dan alkohol. Informasi yang harus disertakan:
1.  **foodName**: Nama makanan dalam Bahasa Indonesia.
2.  **recipe**: Resep lengkap (bahan, langkah-langkah, waktu memasak, estimasi biaya dalam IDR). Pastikan resep ini halal.
3.  **nutrition**: Informasi gizi lengkap per porsi.
4.  **healthAnalysis**: Analisis kesehatan mendalam (ringkasan, efek positif, potensi risiko).
5.  **smartTips**: Tips edukasi dan hemat.
6.  **servingSuggestion**: Saran penyajian terbaik.
7.  **consumptionSuggestion**: Saran konsumsi umum.
8.  **consumptionTime**: Waktu konsumsi yang ideal.
9.  **flavorProfile**: Deskripsi mendetail tentang profil rasa dan tekstur makanan ini.
10. **foodPairing**: Rekomendasi padu padan halal:
    *   **drinkPairings**: Daftar saran minuman yang halal (contoh: jus, teh, mocktail, dll.). Jangan menyarankan minuman beralkohol.
    *   **foodPairings**: Daftar saran makanan pendamping yang halal. Jangan menyarankan babi atau bahan non-halal lainnya.`
