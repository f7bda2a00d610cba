package banner

import "fmt"

const banner = `
██████╗ ███████╗██████╗ ██╗     ██╗███╗   ██╗███████╗
██╔══██╗██╔════╝██╔══██╗██║     ██║████╗  ██║██╔════╝
██████╔╝█████╗  ██║  ██║██║     ██║██╔██╗ ██║█████╗
██╔══██╗██╔══╝  ██║  ██║██║     ██║██║╚██╗██║██╔══╝
██║  ██║███████╗██████╔╝███████╗██║██║ ╚████║███████╗
╚═╝  ╚═╝╚══════╝╚═════╝ ╚══════╝╚═╝╚═╝  ╚═══╝╚══════╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(addr, dbPath, version string, advisorConfigured bool) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if advisorConfigured {
		fmt.Println("Advisor:  configured")
	} else {
		fmt.Println("Advisor:  not configured (placeholder advisories)")
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/threads                         - Create a pinned discussion thread")
	fmt.Println("GET  /v1/threads?project=|sheet=|revision= - List threads")
	fmt.Println("POST /v1/threads/{id}/messages           - Append a message")
	fmt.Println("POST /v1/sheets/{sheet}/revisions        - Process a revision update")
	fmt.Println("GET  /v1/export?project=<id>             - Audit export")
}
