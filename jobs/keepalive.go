package jobs

import (
	"log"
	"net/http"

	"github.com/robfig/cron/v3"
)

// StartKeepAlive pings the deployment URL every 10 minutes so the
// hosting platform does not idle the instance. No-op when the URL is
// unset (local development).
func StartKeepAlive(c *cron.Cron, url string) {
	if url == "" {
		return
	}
	_, err := c.AddFunc("*/10 * * * *", func() {
		resp, err := http.Get(url)
		if err != nil {
			log.Printf("Error while sending keep-alive request: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			log.Println("Keep-alive request sent successfully.")
		} else {
			log.Printf("Keep-alive request failed: %d", resp.StatusCode)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule keep-alive job: %v", err)
	}
}
