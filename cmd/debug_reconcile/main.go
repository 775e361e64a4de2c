package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"code-reconciler/core/config"
	"code-reconciler/core/reconcile"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/core/table"
)

// Traces one HCPCS code through both workbooks to explain why it did or did
// not match. Usage: debug_reconcile <master> <client> <code>
func main() {
	if len(os.Args) != 4 {
		log.Fatal("usage: debug_reconcile <master> <client> <code>")
	}
	masterPath, clientPath := os.Args[1], os.Args[2]
	want := reconcile.SplitCode(strings.ToUpper(strings.TrimSpace(os.Args[3])))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	criteria := cfg.Reconcile.Criteria
	fmt.Printf("Criteria: %+v\n", criteria)

	master := load(masterPath)
	client := load(clientPath)

	fmt.Println("=== TEST 1: Column Resolution ===")
	masterCols := resolve(reconcile.SideMaster, master)
	clientCols := resolve(reconcile.SideClient, client)

	fmt.Println("\n=== TEST 2: Master Rows ===")
	masterKeys := trace(master, masterCols, criteria, want.Root)

	fmt.Println("\n=== TEST 3: Client Rows ===")
	clientKeys := trace(client, clientCols, criteria, want.Root)

	fmt.Println("\n=== TEST 4: Join ===")
	for key := range clientKeys {
		if masterKeys[key] {
			fmt.Printf("key %q joins master and client\n", key)
		} else {
			fmt.Printf("key %q has no master counterpart\n", key)
		}
	}

	res, err := reconcile.Reconcile(master, client, criteria)
	if err != nil {
		log.Fatal(err)
	}

	output := map[string]interface{}{
		"code":    os.Args[3],
		"columns": res.Columns,
		"mapping": res.Mapping,
		"stats":   res.Stats,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	if err := os.WriteFile("debug_reconcile.json", data, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nDebug complete. Check debug_reconcile.json for details.")
}

func load(path string) table.Dataset {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	wb, err := spreadsheet.Decode(f, path)
	if err != nil {
		log.Fatal(err)
	}
	ds, err := wb.Sheet("")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %d rows, %d columns\n", path, len(ds.Rows), len(ds.Columns))
	return ds
}

func resolve(side reconcile.Side, ds table.Dataset) reconcile.KeyColumns {
	cols, err := reconcile.ResolveKeyColumns(side, ds.Columns)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: hcpcs=%q modifier=%q description=%q quantity=%q\n",
		side, cols.HCPCS, cols.Modifier, cols.Description, cols.Quantity)
	return cols
}

// trace prints every row whose root is the traced code and returns their comparison keys.
func trace(ds table.Dataset, cols reconcile.KeyColumns, criteria reconcile.ModifierCriteria, root string) map[string]bool {
	keys := make(map[string]bool)
	for _, row := range ds.Rows {
		parts := reconcile.ParseCode(row, cols.HCPCS, cols.Modifier)
		if parts.Root != root {
			continue
		}
		key := reconcile.BuildComparisonKey(parts.Root, parts.Modifier, criteria)
		keys[key] = true
		fmt.Printf("row %s: root=%s modifier=%q raw=%q key=%q multiplier=%+v\n",
			row.ID, parts.Root, parts.Modifier,
			reconcile.BuildRawKey(row, cols.HCPCS, cols.Modifier), key,
			reconcile.ParseMultiplierCode(row.String(cols.HCPCS)))
	}
	if len(keys) == 0 {
		fmt.Println("NOT FOUND")
	}
	return keys
}
