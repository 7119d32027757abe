package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

func TestCompareRanksByProfitPerDrop(t *testing.T) {
	engine := newTestEngine(t, []catalog.CropDefinition{sugarcane, bajra, mustard, paddy}, nil, nil, nil)
	f := farm("Medium Sandy")
	f.IntendedCrop = "Sugarcane"

	resp, err := engine.Compare(context.Background(), CompareRequest{
		Farm:    f,
		CropIDs: []string{"sugarcane_seasonal", "bajra_hybrid", "mustard_rai", "paddy_clay"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Crops, 3)
	require.Equal(t, []string{"Mustard", "Bajra", "Sugarcane"}, resp.ChartData.Labels)
	require.Len(t, resp.ChartData.ProfitPerDrop, 3)
	require.Len(t, resp.ChartData.ViabilityScore, 3)
	require.Equal(t, "Uttar Pradesh", resp.Region)

	best := resp.Crops[0]
	require.Equal(t, "mustard_rai", best.CropID)
	require.Equal(t, 110, best.DaysToHarvest)
	require.Equal(t, "LOW", best.RiskLevel)
	require.Equal(t, 80, best.ViabilityScore)
	require.Equal(t, 300.0, best.WaterRequired)
	require.Empty(t, best.RiskFactors)

	cane := resp.Crops[2]
	require.Less(t, cane.ProfitPerDrop, 0.0)
	require.Less(t, cane.TotalProfit, 0.0)
	require.Equal(t, []string{"Critical water shortage (<60%)"}, cane.RiskFactors)

	require.Equal(t, "mustard_rai", resp.Winner.CropID)
	require.Contains(t, resp.Winner.Advantage, "higher profit/drop than runner-up")
	require.Equal(t, "Mustard offers the best water productivity with low risk", resp.Winner.Message)
}

func TestCompareValidatesCropCount(t *testing.T) {
	engine := newTestEngine(t, []catalog.CropDefinition{bajra, mustard}, nil, nil, nil)

	for name, ids := range map[string][]string{
		"one":        {"bajra_hybrid"},
		"duplicates": {"bajra_hybrid", " bajra_hybrid "},
		"seven":      {"a", "b", "c", "d", "e", "f", "g"},
		"blank":      {"", " "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Compare(context.Background(), CompareRequest{Farm: farm("Medium"), CropIDs: ids})
			require.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
		})
	}
}

func TestCompareNoViableCrops(t *testing.T) {
	engine := newTestEngine(t, []catalog.CropDefinition{paddy, bajra}, nil, nil, nil)

	_, err := engine.Compare(context.Background(), CompareRequest{Farm: farm("Sandy"), CropIDs: []string{"paddy_clay", "unknown_crop"}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoViableCrops))

	_, err = engine.Compare(context.Background(), CompareRequest{Farm: farm("Sandy"), CropIDs: []string{"x", "y"}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoViableCrops))
}

func TestCompareRejectsMalformedFarm(t *testing.T) {
	engine := newTestEngine(t, []catalog.CropDefinition{bajra, mustard}, nil, nil, nil)
	f := farm("Medium")
	f.Pincode = ""

	_, err := engine.Compare(context.Background(), CompareRequest{Farm: f, CropIDs: []string{"bajra_hybrid", "mustard_rai"}})
	require.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestWinnerAdvantage(t *testing.T) {
	cases := []struct {
		name  string
		items []CompareItem
		want  string
	}{
		{
			name:  "runner-up profitable",
			items: []CompareItem{{Name: "A", ProfitPerDrop: 150, RiskLevel: "MEDIUM"}, {Name: "B", ProfitPerDrop: 100}},
			want:  "50% higher profit/drop than runner-up",
		},
		{
			name:  "only profitable",
			items: []CompareItem{{Name: "A", ProfitPerDrop: 20}, {Name: "B", ProfitPerDrop: -5}},
			want:  "Only profitable crop among those compared",
		},
		{
			name:  "all losing",
			items: []CompareItem{{Name: "A", ProfitPerDrop: -2}, {Name: "B", ProfitPerDrop: -5}},
			want:  "Smallest loss per drop among those compared",
		},
		{
			name:  "single",
			items: []CompareItem{{Name: "A", ProfitPerDrop: 10}},
			want:  "Only viable crop among those compared",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, winnerOf(tc.items).Advantage)
		})
	}
	require.Equal(t, "A offers the best water productivity with medium risk", winnerOf(cases[0].items).Message)
}
