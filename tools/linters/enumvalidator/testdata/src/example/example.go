package example

type Tier string

const (
	TierTrial Tier = "trial"
	TierBasic Tier = "basic"
)

type Role string

const (
	RoleOrgAdmin Role = "org_admin"
)

// Label has no constants, so literals are fine.
type Label string

type Organization struct {
	Subscription Tier
	Label        Label
}

type User struct {
	Role Role
}

func bad() {
	o := &Organization{}
	o.Subscription = "gold" // want "enum field Subscription assigned string literal"

	u := User{Role: "owner"} // want "enum field Role assigned string literal"
	_ = u
}

func good() {
	o := &Organization{Subscription: TierBasic}
	o.Subscription = TierTrial
	o.Label = "vip"

	u := &User{}
	u.Role = RoleOrgAdmin
}

func alsoGood() {
	tier := TierTrial
	o := &Organization{Subscription: tier}
	_ = o
}
