package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var peerHost string

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List the node's known peers",
	Run:   peersRun,
}

var peersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a peer with the node",
	Run:   peersAddRun,
}

var peersRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a peer from the node",
	Run:   peersRemoveRun,
}

func init() {
	rootCmd.AddCommand(peersCmd)
	peersCmd.AddCommand(peersAddCmd, peersRemoveCmd)
	peersAddCmd.Flags().StringVarP(&peerHost, "host", "n", "", "Host of the peer node.")
	peersRemoveCmd.Flags().StringVarP(&peerHost, "host", "n", "", "Host of the peer node.")
}

func peersRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/node/list", url))
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer resp.Body.Close()

	var peers []struct {
		Host string `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		pterm.Error.Println(err)
		return
	}

	table := pterm.TableData{{"Host"}}
	for _, pr := range peers {
		table = append(table, []string{pr.Host})
	}
	pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

func peersAddRun(cmd *cobra.Command, args []string) {
	payload, err := json.Marshal(struct {
		Host string `json:"host"`
	}{Host: peerHost})
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/node/add", url), "application/json", bytes.NewBuffer(payload))
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		pterm.Error.Printfln("node refused the peer: status %d", resp.StatusCode)
		return
	}

	pterm.Success.Printfln("peer %s registered", peerHost)
}

func peersRemoveRun(cmd *cobra.Command, args []string) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/node/remove/%s", url, peerHost), nil)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer resp.Body.Close()

	pterm.Success.Printfln("peer %s removed", peerHost)
}
