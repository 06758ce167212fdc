package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type balance struct {
	Account string  `json:"account"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type balances struct {
	LatestBlockHash string    `json:"latest_block_hash"`
	Uncommitted     int       `json:"uncommitted"`
	Balances        []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	accountID := database.PublicKeyToAccountID(privateKey.PublicKey)

	resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, accountID))
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer resp.Body.Close()

	var balances balances
	if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
		pterm.Error.Println(err)
		return
	}

	pterm.Info.Printfln("account: %s", accountID)
	if len(balances.Balances) > 0 {
		pterm.Success.Printfln("balance: %v", balances.Balances[0].Balance)
	}
}
