package audit

import (
	"github.com/dusk-indust/slideroute/internal/contract"
)

// auditSource builds the shared fixture deck for the audit tests.
func auditSource() *contract.TemplateSource {
	return &contract.TemplateSource{
		Version: "2.3",
		Patterns: map[string]contract.Pattern{
			"regulatory_table": {
				ID:             "regulatory_table",
				TemplateSlides: []int{6, 7, 8, 9, 10, 12},
				Elements: contract.Elements{
					Table: &contract.TableElement{Rows: 8, Columns: 4},
				},
			},
			"market_chart": {
				ID:             "market_chart",
				TemplateSlides: []int{15, 16},
				Elements: contract.Elements{
					Charts: []contract.ChartElement{{Name: "trend", Kind: "line"}},
				},
			},
			"executive_summary": {
				ID:             "executive_summary",
				TemplateSlides: []int{1, 2, 3},
				Elements: contract.Elements{
					Panels: []contract.PanelElement{{Name: "body"}},
				},
			},
		},
		Slides: map[int]contract.SlideGeometry{
			1:  {},
			2:  {},
			3:  {},
			6:  {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			7:  {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			8:  {Table: &contract.TableRegion{Rows: 6, Columns: 3}},
			9:  {},
			10: {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			12: {Table: &contract.TableRegion{Rows: 10, Columns: 5}},
			15: {Charts: []contract.ChartRegion{{Name: "trend", Kind: "line"}}},
			16: {Charts: []contract.ChartRegion{{Kind: "bar"}}},
		},
	}
}

func auditMappings() *contract.MappingConfig {
	return &contract.MappingConfig{
		BlockPatterns: map[string]string{
			"foundationalActs": "regulatory_table",
			"marketOutlook":    "market_chart",
			"execIntro":        "executive_summary",
		},
		BlockSlides: map[string]int{
			"foundationalActs": 7,
			"marketOutlook":    15,
			"execIntro":        1,
		},
		TableContextKeys: []string{"foundationalActs"},
		ChartContextKeys: []string{"marketOutlook"},
	}
}
