// Package nutrition defines the structured result of a food photo
// analysis and the rules for recovering it from model output.
package nutrition

import (
	"encoding/json"
	"fmt"

	"nutrilens/pkg/errors"
)

// Macros holds macronutrient amounts in grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Highlights holds the qualitative tags the model attaches to a dish.
type Highlights struct {
	Fiber  string `json:"fiber"`
	Energy string `json:"energy"`
}

// Record is the structured nutrition result for a single analyzed photo.
// A Record handed to callers is always fully populated; partial records
// never leave the analysis pipeline.
type Record struct {
	FoodName    string     `json:"foodName"`
	Description string     `json:"description"`
	Calories    float64    `json:"calories"`
	Macros      Macros     `json:"macros"`
	Highlights  Highlights `json:"highlights"`
}

// Validate checks that the record is complete and its numeric fields are
// non-negative.
func (r *Record) Validate() error {
	if r.FoodName == "" {
		return errors.NewValidationError("foodName is required")
	}
	if r.Calories < 0 {
		return errors.NewValidationError("calories must be non-negative")
	}
	if r.Macros.Protein < 0 || r.Macros.Carbs < 0 || r.Macros.Fat < 0 {
		return errors.NewValidationError("macro values must be non-negative")
	}
	return nil
}

// Placeholder returns the fixed demo record substituted when remote
// analysis fails, so the flow continues instead of surfacing the error.
func Placeholder() Record {
	return Record{
		FoodName:    "演示用-香煎鸡胸肉",
		Description: "由于AI连接失败，这是显示的演示数据。看起来这是一份健康的鸡肉沙拉。",
		Calories:    420,
		Macros: Macros{
			Protein: 35,
			Carbs:   12,
			Fat:     18,
		},
		Highlights: Highlights{
			Fiber:  "高蛋白",
			Energy: "低碳水",
		},
	}
}

// ParseRecord decodes a model answer into a Record. The text is first
// parsed as plain JSON; if the model wrapped the object in commentary,
// the outermost balanced braces are recovered and parsed instead.
func ParseRecord(text string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		embedded, ok := ExtractJSON(text)
		if !ok {
			return nil, errors.NewAnalysisError("model answer contains no JSON object").WithCause(err)
		}
		if err := json.Unmarshal([]byte(embedded), &rec); err != nil {
			return nil, errors.NewAnalysisError(fmt.Sprintf("embedded JSON is not a nutrition record: %v", err))
		}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}
