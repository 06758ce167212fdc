package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	recipient string
	amount    float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and send a transaction",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			pterm.Error.Println(err)
			return
		}

		sendWithDetails(privateKey)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&recipient, "to", "t", "", "Account receiving the funds.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "m", 0, "Amount to send.")
}

func sendWithDetails(privateKey *ecdsa.PrivateKey) {
	sender := database.PublicKeyToAccountID(privateKey.PublicKey)

	recipientID, err := database.ToAccountID(recipient)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	tx, err := database.NewTx(sender, recipientID, amount)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		pterm.Error.Printfln("node rejected the transaction: %s", body)
		return
	}

	pterm.Success.Printfln("sent %v from %s to %s", amount, sender, recipientID)
}
