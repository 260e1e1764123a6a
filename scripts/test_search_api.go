package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendGet(path string, params map[string]string) (*http.Response, []byte, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	fullURL := baseURL + path
	if len(q) > 0 {
		fullURL += "?" + q.Encode()
	}

	resp, err := http.Get(fullURL)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Concise printing for search responses to avoid huge result dumps
func printSearchSummary(body []byte) {
	var envelope map[string]interface{}
	json.Unmarshal(body, &envelope)
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		prettyPrint(envelope)
		return
	}
	fmt.Printf("Total: %v | Cache Hit: %v\n", data["total_count"], data["cache_hit"])
	if pf, ok := data["price_filter"].(map[string]interface{}); ok {
		fmt.Printf("Price Filter: applied=%v fallback=%v min=%v max=%v\n",
			pf["applied"], pf["fallback_used"], pf["min"], pf["max"])
	}
	if msg, ok := data["message"].(string); ok {
		fmt.Printf("Message: %s\n", msg)
	}
	if results, ok := data["results"].([]interface{}); ok {
		for i, r := range results {
			if i >= 3 {
				fmt.Printf("... and %d more\n", len(results)-3)
				break
			}
			if item, ok := r.(map[string]interface{}); ok {
				fmt.Printf("  - %v (€%v, sim %.3f)\n", item["title"], item["price"], item["similarity"])
			}
		}
	}
}

func main() {
	color.Cyan("🚀 Starting AI Search API Test\n")

	// 1. AI search with a price constraint in the query
	color.Yellow("\n1. AI Search: 'rode schoenen onder 100 euro'")
	resp, body, err := sendGet("/search/v1/ai-search", map[string]string{"q": "rode schoenen onder 100 euro"})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	printSearchSummary(body)

	// 2. Same query again, should be served from cache
	color.Yellow("\n2. AI Search: same query (expect cache_hit=true)")
	resp, body, err = sendGet("/search/v1/ai-search", map[string]string{"q": "rode schoenen onder 100 euro"})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	printSearchSummary(body)

	// 3. Impossible price range, should trigger the cheapest-alternatives fallback
	color.Yellow("\n3. AI Search: 'schoenen onder 1 euro' (expect fallback)")
	resp, body, err = sendGet("/search/v1/ai-search", map[string]string{"q": "schoenen onder 1 euro"})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	printSearchSummary(body)

	// 4. Autocomplete
	color.Yellow("\n4. Autocomplete: 'sch'")
	resp, body, err = sendGet("/search/v1/autocomplete", map[string]string{"q": "sch"})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var acResp map[string]interface{}
	json.Unmarshal(body, &acResp)
	prettyPrint(acResp)

	// 5. Popular searches (fed by the analytics consumer, may lag a moment)
	color.Yellow("\n5. Popular Searches")
	resp, body, err = sendGet("/search/v1/popular", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var popResp map[string]interface{}
	json.Unmarshal(body, &popResp)
	prettyPrint(popResp)

	// 6. Catalog listing with filters
	color.Yellow("\n6. Catalog: Schoenen sorted by price")
	resp, body, err = sendGet("/catalog/v1/products", map[string]string{
		"category":   "Schoenen",
		"sort_by":    "price",
		"sort_order": "asc",
		"limit":      "5",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	if data, ok := listResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Total: %v\n", data["total_count"])
		if products, ok := data["products"].([]interface{}); ok {
			for _, p := range products {
				if item, ok := p.(map[string]interface{}); ok {
					fmt.Printf("  - %v (€%v)\n", item["title"], item["price"])
				}
			}
		}
	} else {
		prettyPrint(listResp)
	}

	color.Cyan("\n✅ Test Sequence Complete")
}
