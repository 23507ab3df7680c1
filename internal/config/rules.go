package config

type RulesConfig struct {
	KillRates []KillRateDef `yaml:"kill_rates"`
	Policy    PolicyDef     `yaml:"policy"`
}

type KillRateDef struct {
	Attacker string `yaml:"attacker"`
	Defender string `yaml:"defender"`
	Per      int    `yaml:"per"`
	Kills    int    `yaml:"kills"`
	Note     string `yaml:"note"`
}

type PolicyDef struct {
	Rounding string `yaml:"rounding"`
	Fallback string `yaml:"fallback"`
}
