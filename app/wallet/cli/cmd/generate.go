package cmd

import (
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	path := getPrivateKeyPath()
	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		pterm.Error.Println(err)
		return
	}

	pterm.Success.Printfln("key pair written to %s", path)
	pterm.Info.Printfln("account: %s", database.PublicKeyToAccountID(privateKey.PublicKey))
}
