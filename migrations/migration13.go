package migrations

import "strconv"

// Migration13 renames the Confirmed status to Success and backfills the
// hash, id and chainId fields from the keys the transaction is stored under
func Migration13(doc Document) Document {
	out, ok := mapTransactions(doc, func(chainID, hash string, tx map[string]interface{}) map[string]interface{} {
		if tx["status"] == "Confirmed" {
			tx["status"] = "Success"
		}
		if h, _ := tx["hash"].(string); h == "" {
			tx["hash"] = hash
		}
		if id, _ := tx["id"].(string); id == "" {
			tx["id"] = tx["hash"]
		}
		if _, found := tx["chainId"]; !found {
			if n, err := strconv.ParseUint(chainID, 10, 64); err == nil {
				// numbers decoded from JSON are float64
				tx["chainId"] = float64(n)
			}
		}
		return tx
	})
	if !ok {
		return doc
	}
	return withVersion(out, 13)
}
