package core

// Resource is a spendable quantity in the player economy. Resources
// go up with rewards and down with spending, and never drop below
// zero.
type Resource string

// Resources tracked by the ledger.
const (
	ResourceMoney  Resource = "money"
	ResourceEnergy Resource = "energy"
)

// Attribute is a growth stat in the player economy. Attributes only
// accumulate; they feed level progression.
type Attribute string

// Attributes tracked by the ledger.
const (
	AttributeKnowledge Attribute = "knowledge"
	AttributeFitness   Attribute = "fitness"
	AttributeCharisma  Attribute = "charisma"
)

// KnownResource maps a config stat name to a Resource.
func KnownResource(name string) (Resource, bool) {
	switch Resource(name) {
	case ResourceMoney, ResourceEnergy:
		return Resource(name), true
	default:
		return "", false
	}
}

// KnownAttribute maps a config stat name to an Attribute.
func KnownAttribute(name string) (Attribute, bool) {
	switch Attribute(name) {
	case AttributeKnowledge, AttributeFitness, AttributeCharisma:
		return Attribute(name), true
	default:
		return "", false
	}
}
