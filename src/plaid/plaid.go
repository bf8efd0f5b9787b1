package plaid

import (
	"context"
	"fmt"

	"budgee-analytics/src/models"

	"github.com/plaid/plaid-go/v41/plaid"
)

func NewPlaidClient(clientID, secret, env string) (*plaid.APIClient, error) {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)

	switch env {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	default:
		return nil, fmt.Errorf("invalid Plaid environment: %s", env)
	}

	return plaid.NewAPIClient(configuration), nil
}

// LiveBalance asks Plaid for real-time balances on every item and sums the
// depository accounts. Any failing item fails the whole call so the caller can
// fall back to stored balances.
func LiveBalance(ctx context.Context, client *plaid.APIClient, items []models.PlaidItem) (float64, error) {
	if client == nil || len(items) == 0 {
		return 0, fmt.Errorf("no linked plaid items")
	}

	var total float64
	for _, item := range items {
		req := plaid.NewAccountsBalanceGetRequest(item.AccessToken)
		resp, _, err := client.PlaidApi.AccountsBalanceGet(ctx).AccountsBalanceGetRequest(*req).Execute()
		if err != nil {
			return 0, fmt.Errorf("balance for item %s: %w", item.ItemID, err)
		}
		total += SumDepository(resp.GetAccounts())
	}
	return total, nil
}

// SumDepository adds the available balance of each depository account,
// using the current balance when available is unknown.
func SumDepository(accounts []plaid.AccountBase) float64 {
	var total float64
	for _, acc := range accounts {
		if acc.GetType() != plaid.ACCOUNTTYPE_DEPOSITORY {
			continue
		}
		balances := acc.GetBalances()
		if v, ok := balances.GetAvailableOk(); ok && v != nil {
			total += *v
		} else if v, ok := balances.GetCurrentOk(); ok && v != nil {
			total += *v
		}
	}
	return total
}

// StoredBalance sums the last synced balances with the same preference as SumDepository.
func StoredBalance(accounts []models.Account) (float64, bool) {
	var total float64
	found := false
	for _, acc := range accounts {
		switch {
		case acc.AvailableBalance != nil:
			total += *acc.AvailableBalance
		case acc.CurrentBalance != nil:
			total += *acc.CurrentBalance
		default:
			continue
		}
		found = true
	}
	return total, found
}
