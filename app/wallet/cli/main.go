package main

import "github.com/coinledger/blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
