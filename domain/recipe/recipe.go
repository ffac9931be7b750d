// Package recipe holds the built-in recipe catalog.
package recipe

import "strconv"

// Recipe is a suggested dish the user can log directly.
type Recipe struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"desc"`
	Cal         string   `json:"cal"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// defaultRecipeCalories is assumed when a calorie label has no digits.
const defaultRecipeCalories = 400

// Calories extracts the numeric calorie value from the display label
// ("350千卡" -> 350).
func (r Recipe) Calories() int {
	digits := make([]rune, 0, len(r.Cal))
	for _, c := range r.Cal {
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return defaultRecipeCalories
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return defaultRecipeCalories
	}
	return n
}

// Catalog returns the built-in recipes.
func Catalog() []Recipe {
	return []Recipe{
		{
			ID:          1,
			Title:       "低卡减脂餐 #1",
			Description: "采用新鲜的三文鱼和藜麦，富含优质蛋白和复合碳水，适合减脂期食用。",
			Cal:         "350千卡",
			Image:       "https://images.unsplash.com/photo-1467003909585-2f8a72700288?auto=format&fit=crop&w=400",
			Ingredients: []string{"三文鱼 150g", "藜麦 50g", "西兰花 100g", "柠檬 半个"},
			Steps:       []string{"藜麦煮熟备用", "三文鱼煎至两面金黄", "西兰花焯水", "摆盘并挤上柠檬汁"},
		},
		{
			ID:          2,
			Title:       "低卡减脂餐 #2",
			Description: "经典的鸡胸肉沙拉，搭配特调低脂油醋汁，清爽不油腻，饱腹感强。",
			Cal:         "320千卡",
			Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?auto=format&fit=crop&w=400",
			Ingredients: []string{"鸡胸肉 120g", "生菜 100g", "小番茄 6个", "油醋汁 15ml"},
			Steps:       []string{"鸡胸肉煮熟撕成条", "蔬菜洗净切块", "混合后淋上油醋汁"},
		},
		{
			ID:          3,
			Title:       "低卡减脂餐 #3",
			Description: "牛油果全麦吐司配水波蛋，富含健康脂肪，开启活力满满的一天。",
			Cal:         "380千卡",
			Image:       "https://images.unsplash.com/photo-1482049016688-2d3e1b311543?auto=format&fit=crop&w=400",
			Ingredients: []string{"全麦吐司 2片", "牛油果 半个", "鸡蛋 1个"},
			Steps:       []string{"吐司烤至微脆", "牛油果压成泥涂抹", "水波蛋放顶部"},
		},
		{
			ID:          4,
			Title:       "低卡减脂餐 #4",
			Description: "色彩丰富的素食碗，提供丰富的膳食纤维和维生素。",
			Cal:         "400千卡",
			Image:       "https://images.unsplash.com/photo-1540420773420-3366772f4999?auto=format&fit=crop&w=400",
			Ingredients: []string{"鹰嘴豆 80g", "紫甘蓝 50g", "胡萝卜 50g", "糙米 60g"},
			Steps:       []string{"糙米蒸熟", "蔬菜切丝", "鹰嘴豆煮软", "分区摆入碗中"},
		},
	}
}

// ByID looks a recipe up in the catalog.
func ByID(id int) (Recipe, bool) {
	for _, r := range Catalog() {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}
