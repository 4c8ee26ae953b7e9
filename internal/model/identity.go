package model

// Origin identifies which generation path produced an identity.
type Origin string

const (
	OriginTemp   Origin = "temp"
	OriginCustom Origin = "custom"
	OriginAdmin  Origin = "admin"
)

// Identity is one mailbox account: the address/secret pair registered with
// the provider and the session token obtained for it. The token is only
// meaningful together with the address/secret that produced it; no expiry
// is tracked locally, a rejected request is the only invalidation signal.
type Identity struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
	Token   string `json:"token"`
}

// Complete reports whether all three fields are present. An identity
// restored from storage is only usable without a network round trip
// when it is complete.
func (id Identity) Complete() bool {
	return id.Address != "" && id.Secret != "" && id.Token != ""
}

// IsZero reports whether the identity is empty.
func (id Identity) IsZero() bool {
	return id.Address == "" && id.Secret == "" && id.Token == ""
}
