package models

import "fmt"

// ExtraPayload carries action-specific context on a log entry. Known actions
// have typed views below; anything else stays an opaque key-value bag so old
// clients keep working when the contract layer adds actions.
type ExtraPayload map[string]any

// DeployExtra is the payload recorded with a "deploy" action.
type DeployExtra struct {
	Importer       string `json:"importer"`
	Exporter       string `json:"exporter"`
	RequiredAmount string `json:"requiredAmount"`
	Token          string `json:"token"`
}

// DepositExtra is the payload recorded with a "deposit" action.
type DepositExtra struct {
	Amount string `json:"amount"`
	Token  string `json:"token"`
}

// Deploy decodes the payload as a deploy extra. The second return is false
// when the payload carries neither counterpart address.
func (e ExtraPayload) Deploy() (DeployExtra, bool) {
	d := DeployExtra{
		Importer:       e.str("importer"),
		Exporter:       e.str("exporter"),
		RequiredAmount: e.str("requiredAmount"),
		Token:          e.str("token"),
	}
	return d, d.Importer != "" || d.Exporter != ""
}

// Deposit decodes the payload as a deposit extra.
func (e ExtraPayload) Deposit() (DepositExtra, bool) {
	d := DepositExtra{
		Amount: e.str("amount"),
		Token:  e.str("token"),
	}
	return d, d.Amount != ""
}

func (e ExtraPayload) str(key string) string {
	if e == nil {
		return ""
	}
	switch v := e[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		// Numeric amounts arrive as json numbers from some clients.
		return fmt.Sprintf("%v", v)
	}
}
