package stats

// Stat column names as published by the data source. Each one fills the
// RawRow field of the same meaning.
const (
	ColPlayer          = "Player"
	ColSquad           = "Squad"
	ColPos             = "Pos"
	ColAge             = "Age"
	ColMatchesPlayed   = "MP"
	ColMinutes         = "Min"
	ColGoals           = "Gls"
	ColAssists         = "Ast"
	ColGoalsAssists    = "G+A"
	ColNonPenaltyGoals = "G-PK"
	ColPenalties       = "PK"
	ColPenaltyAttempts = "PKatt"
	ColYellowCards     = "CrdY"
	ColRedCards        = "CrdR"
)
