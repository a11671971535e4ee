package rules

// #region role

// SemanticRole is the participant category underlying a case. The consts
// below cover the roles the rule table knows; datasets may carry novel
// roles, which fall through to the permissive default at extraction time.
type SemanticRole string

const (
	RoleExperiencer  SemanticRole = "EXPERIENCER"
	RoleAgent        SemanticRole = "AGENT"
	RolePatient      SemanticRole = "PATIENT"
	RoleAgentPatient SemanticRole = "AGENT+PATIENT"
	RoleInstrument   SemanticRole = "INSTRUMENT"
	RoleContent      SemanticRole = "CONTENT"
	RoleStimulus     SemanticRole = "STIMULUS"
	RoleGoal         SemanticRole = "GOAL"
	RolePurpose      SemanticRole = "PURPOSE"
	RoleEnabler      SemanticRole = "ENABLER"
	RoleActivation   SemanticRole = "ACTIVATION"
	RoleRecipient    SemanticRole = "RECIPIENT"
	RoleAttribute    SemanticRole = "ATTRIBUTE"
	RolePossessor    SemanticRole = "POSSESSOR"
	RoleOwner        SemanticRole = "OWNER"
	RoleLocation     SemanticRole = "LOCATION"
	RoleOrientation  SemanticRole = "ORIENTATION"
	RoleSource       SemanticRole = "SOURCE"
	RolePart         SemanticRole = "PART"
	RoleCorrelation  SemanticRole = "CORRELATION"
	RoleDependent    SemanticRole = "DEPENDENT"
	RoleContingency  SemanticRole = "CONTINGENCY"

	// RoleUnknown marks entries whose dataset carries no semantic role.
	RoleUnknown SemanticRole = "UNKNOWN"
)

// #endregion role

// #region role-rule

// RoleRule gives the function sets a semantic role permits and forbids.
type RoleRule struct {
	Allowed   FunctionSet
	Forbidden FunctionSet
}

// roleFunctionRules maps each known semantic role to its function
// compatibility, following Ithkuil IV semantics.
var roleFunctionRules = map[SemanticRole]RoleRule{
	// Core roles
	RoleExperiencer:  {Allowed: NewFunctionSet(FunctionStative), Forbidden: NewFunctionSet(FunctionDynamic, FunctionManifestive)}, // AFF - unwilled experiences
	RoleAgent:        {Allowed: NewFunctionSet(FunctionDynamic, FunctionManifestive), Forbidden: NewFunctionSet(FunctionStative)}, // ERG - willed actions
	RolePatient:      {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()},                    // ABS - undergoes change
	RoleAgentPatient: {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()},                    // IND - both roles

	// Instrument & tools
	RoleInstrument: {Allowed: NewFunctionSet(FunctionDynamic), Forbidden: NewFunctionSet(FunctionStative)}, // INS - active use

	// Content & theme
	RoleContent:  {Allowed: AllFunctions(), Forbidden: NewFunctionSet()},                                     // THM - neutral participant
	RoleStimulus: {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // STM - trigger

	// Dynamic roles (inherently action-oriented)
	RoleGoal:       {Allowed: NewFunctionSet(FunctionDynamic, FunctionManifestive), Forbidden: NewFunctionSet(FunctionStative)}, // ALL - target of motion/action
	RolePurpose:    {Allowed: NewFunctionSet(FunctionDynamic, FunctionManifestive), Forbidden: NewFunctionSet(FunctionStative)}, // APL - intended outcome
	RoleEnabler:    {Allowed: NewFunctionSet(FunctionDynamic, FunctionManifestive), Forbidden: NewFunctionSet()},                // EFF - makes action possible
	RoleActivation: {Allowed: NewFunctionSet(FunctionDynamic, FunctionManifestive), Forbidden: NewFunctionSet()},                // ACT - initiates action
	RoleRecipient:  {Allowed: NewFunctionSet(FunctionDynamic), Forbidden: NewFunctionSet()},                                     // DAT - receives something

	// Static roles (inherently state-oriented)
	RoleAttribute: {Allowed: NewFunctionSet(FunctionStative), Forbidden: NewFunctionSet()}, // ATT - properties
	RolePossessor: {Allowed: NewFunctionSet(FunctionStative), Forbidden: NewFunctionSet()}, // POS - has something
	RoleOwner:     {Allowed: NewFunctionSet(FunctionStative), Forbidden: NewFunctionSet()}, // PRP - owns something

	// Spatial & temporal (can be static or dynamic)
	RoleLocation:    {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // LOC - place
	RoleOrientation: {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // ORI - direction
	RoleSource:      {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // GEN/ABL - origin

	// Relational (typically static)
	RolePart:        {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // PAR - part-whole
	RoleCorrelation: {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // COR - relationship
	RoleDependent:   {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // IDP - depends on
	RoleContingency: {Allowed: NewFunctionSet(FunctionStative, FunctionDynamic), Forbidden: NewFunctionSet()}, // DEP - conditional
}

// RuleForRole resolves a semantic role to its function rule. Roles absent
// from the table get the permissive default: allow all, forbid none.
// Returned sets are independent copies.
func RuleForRole(role SemanticRole) RoleRule {
	if rule, ok := roleFunctionRules[role]; ok {
		return RoleRule{Allowed: rule.Allowed.Clone(), Forbidden: rule.Forbidden.Clone()}
	}
	return RoleRule{Allowed: AllFunctions(), Forbidden: NewFunctionSet()}
}

// KnownRole reports whether the rule table has an entry for role.
func KnownRole(role SemanticRole) bool {
	_, ok := roleFunctionRules[role]
	return ok
}

// #endregion role-rule
