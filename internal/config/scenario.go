package config

type ScenarioConfig struct {
	Name   string     `yaml:"name" json:"name"`
	Favor  string     `yaml:"favor" json:"favor"`
	Groups []GroupDef `yaml:"groups" json:"groups"`
}

type GroupDef struct {
	Type   string `yaml:"type" json:"type"`
	Amount int    `yaml:"amount" json:"amount"`
	Team   string `yaml:"team" json:"team"`
	Note   string `yaml:"note" json:"note,omitempty"`
}
