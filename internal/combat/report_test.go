package combat

import (
	"strings"
	"testing"
)

func TestStepDescribe(t *testing.T) {
	combine := Step{
		Kind:  StepCombine,
		Left:  Group{Type: "archers", Amount: 7, Team: TeamBlue},
		Right: Group{Type: "soldiers", Amount: 4, Team: TeamBlue},
		After: []Group{{Type: "archers", Amount: 11, Team: TeamBlue}},
	}
	if got, want := combine.Describe(), "combine 7 archers (blue) with 4 soldiers (blue) -> 11 archers (blue)"; got != want {
		t.Errorf("combine line = %q, want %q", got, want)
	}

	battle := Step{
		Kind:  StepBattle,
		Left:  Group{Type: "warriors", Amount: 12, Team: TeamRed},
		Right: Group{Type: "archers", Amount: 11, Team: TeamBlue},
		After: []Group{{Type: "archers", Amount: 11, Team: TeamBlue}},
	}
	if got := battle.Describe(); !strings.HasPrefix(got, "battle 12 warriors (red) vs 11 archers (blue)") {
		t.Errorf("battle line = %q", got)
	}

	wipe := Step{Kind: StepBattle,
		Left:  Group{Type: Typeless, Amount: 5, Team: TeamBlue},
		Right: Group{Type: Typeless, Amount: 5, Team: TeamRed},
	}
	if got := wipe.Describe(); !strings.HasSuffix(got, "-> all eliminated") {
		t.Errorf("mutual wipe line = %q", got)
	}
}

func TestMarshalPrettyIsStableJSON(t *testing.T) {
	res := Result{Advantage: 11, Favored: TeamBlue, Steps: []Step{}, Survivors: []Group{}}
	out := string(MarshalPretty(res))
	if !strings.Contains(out, "\"advantage\": 11") {
		t.Errorf("marshalled result missing advantage: %s", out)
	}
	if !strings.Contains(out, "\"favored\": \"blue\"") {
		t.Errorf("marshalled result missing favored team: %s", out)
	}
}
