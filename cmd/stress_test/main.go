// Concurrency smoke tool: hammers the sell endpoint against one catalog
// item and reports how many sales the service accepted. With the item
// seeded below, successes must equal the initial stock and the rest come
// back as insufficient-stock rejections.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL       = "http://localhost:8080"
	catalogID     = 1
	totalRequests = 50
)

func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	var successCount, rejectedCount, errorCount atomic.Int32
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			url := fmt.Sprintf("%s/catalog/sellproduct/%d/1", baseURL, catalogID)
			resp, err := client.Post(url, "application/json", nil)
			if err != nil {
				errorCount.Add(1)
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				rejectedCount.Add(1)
			default:
				errorCount.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	log.Printf("requests: %d in %v", totalRequests, elapsed)
	log.Printf("sold: %d", successCount.Load())
	log.Printf("rejected (insufficient stock): %d", rejectedCount.Load())
	log.Printf("errors: %d", errorCount.Load())
}
