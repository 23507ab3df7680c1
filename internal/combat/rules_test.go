package combat

import (
	"errors"
	"testing"

	"warpath/internal/config"
)

func TestNewRuleSetFromConfig(t *testing.T) {
	rs, err := NewRuleSet(&config.RulesConfig{
		KillRates: []config.KillRateDef{
			{Attacker: "archers", Defender: "warriors", Per: 2, Kills: 3},
			{Attacker: "warriors", Defender: "soldiers", Per: 2, Kills: 3},
		},
		Policy: config.PolicyDef{Rounding: "fractional", Fallback: "no_effect"},
	})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	if rs.Len() != 2 {
		t.Errorf("table size = %d, want 2", rs.Len())
	}
	if rs.rounding != RoundFractional || rs.fallback != TradeNone {
		t.Errorf("policies = (%s, %s), want (fractional, no_effect)", rs.rounding, rs.fallback)
	}
	kr, ok := rs.Rate("archers", "warriors")
	if !ok || kr.Required != 2 || kr.Kills != 3 {
		t.Errorf("Rate(archers, warriors) = (%+v, %v), want ({2 3}, true)", kr, ok)
	}
	if _, ok := rs.Rate("warriors", "archers"); ok {
		t.Error("reverse entry present, table should stay directed")
	}
}

func TestNewRuleSetDefaults(t *testing.T) {
	rs, err := NewRuleSet(nil)
	if err != nil {
		t.Fatalf("NewRuleSet(nil): %v", err)
	}
	if rs.Len() != 0 {
		t.Errorf("empty table has %d entries", rs.Len())
	}
	if rs.rounding != RoundWhole || rs.fallback != TradeEven {
		t.Errorf("defaults = (%s, %s), want (whole, even_trade)", rs.rounding, rs.fallback)
	}
}

func TestNewRuleSetRejectsBadPolicies(t *testing.T) {
	if _, err := NewRuleSet(&config.RulesConfig{Policy: config.PolicyDef{Rounding: "ceiling"}}); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("bad rounding: got %v, want ErrMalformedInput", err)
	}
	if _, err := NewRuleSet(&config.RulesConfig{Policy: config.PolicyDef{Fallback: "mutual"}}); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("bad fallback: got %v, want ErrMalformedInput", err)
	}
}

func TestRuleSetAddValidation(t *testing.T) {
	rs, _ := NewRuleSet(nil)
	if err := rs.Add("archers", "warriors", 0, 3); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("per=0: got %v, want ErrMalformedInput", err)
	}
	if err := rs.Add("archers", "warriors", 2, -1); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("kills=-1: got %v, want ErrMalformedInput", err)
	}
	if err := rs.Add("", "warriors", 2, 3); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("empty attacker: got %v, want ErrMalformedInput", err)
	}
	if err := rs.Add("archers", "warriors", 2, 0); err != nil {
		t.Errorf("zero kills is a legal rule: %v", err)
	}
}

func TestRuleSetTypesSorted(t *testing.T) {
	rs := testRules(t)
	types := rs.Types()
	want := []UnitType{"archers", "soldiers", "warriors"}
	if len(types) != len(want) {
		t.Fatalf("Types() = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("Types() = %v, want %v", types, want)
		}
	}
}

func TestGroupsFromConfig(t *testing.T) {
	groups, favor, err := GroupsFromConfig(&config.ScenarioConfig{
		Favor: "red",
		Groups: []config.GroupDef{
			{Type: "warriors", Amount: 12, Team: "red"},
			{Type: "archers", Amount: 7, Team: "blue"},
		},
	})
	if err != nil {
		t.Fatalf("GroupsFromConfig: %v", err)
	}
	if favor != TeamRed {
		t.Errorf("favor = %s, want red", favor)
	}
	if len(groups) != 2 || groups[0].Type != "warriors" || groups[1].Amount != 7 {
		t.Errorf("groups = %v", groups)
	}
}

func TestGroupsFromConfigDefaultsToBlue(t *testing.T) {
	_, favor, err := GroupsFromConfig(&config.ScenarioConfig{
		Groups: []config.GroupDef{{Type: "archers", Amount: 1, Team: "blue"}},
	})
	if err != nil {
		t.Fatalf("GroupsFromConfig: %v", err)
	}
	if favor != TeamBlue {
		t.Errorf("favor = %s, want blue", favor)
	}
}

func TestGroupsFromConfigRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		sc   *config.ScenarioConfig
	}{
		{"nil scenario", nil},
		{"no groups", &config.ScenarioConfig{}},
		{"missing type", &config.ScenarioConfig{Groups: []config.GroupDef{{Amount: 3, Team: "blue"}}}},
		{"negative amount", &config.ScenarioConfig{Groups: []config.GroupDef{{Type: "archers", Amount: -1, Team: "blue"}}}},
		{"unknown team", &config.ScenarioConfig{Groups: []config.GroupDef{{Type: "archers", Amount: 3, Team: "green"}}}},
		{"unknown favor", &config.ScenarioConfig{Favor: "green", Groups: []config.GroupDef{{Type: "archers", Amount: 3, Team: "blue"}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := GroupsFromConfig(c.sc); !errors.Is(err, ErrMalformedInput) {
				t.Errorf("got %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestValidateGroupsSizeCap(t *testing.T) {
	groups := make([]Group, MaxGroups+1)
	for i := range groups {
		groups[i] = Group{Type: "archers", Amount: 1, Team: TeamBlue}
	}
	if err := ValidateGroups(groups); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("oversized roster: got %v, want ErrMalformedInput", err)
	}
	if err := ValidateGroups(groups[:MaxGroups]); err != nil {
		t.Errorf("roster at the cap should pass: %v", err)
	}
}
