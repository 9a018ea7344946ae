package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"

	"Helios/Attendance"
	"Helios/CronJobs"
	"Helios/FiberConfig"
	"Helios/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	Models.Connect()

	statePath := os.Getenv("ATTENDANCE_STATE_FILE")
	if statePath == "" {
		statePath = "attendance_state.json"
	}
	state, err := Attendance.LoadClientState(statePath)
	if err != nil {
		log.Fatal("Failed to load attendance state:", err)
	}
	engine := Attendance.NewEngine(state, Attendance.NewWriter(Models.DB))

	ticker := CronJobs.NewEligibilityTicker(engine, true)
	if err := ticker.Start(); err != nil {
		log.Fatal("Failed to start eligibility ticker:", err)
	}
	defer ticker.Stop()

	// Other clients write to the same tree; note remote changes in the log.
	unsubscribe := Models.DB.Subscribe(Models.AttendancePath, func(raw json.RawMessage) {
		log.Printf("Attendance tree changed (%d bytes)", len(raw))
	})
	defer unsubscribe()

	FiberConfig.FiberConfig(engine)
}
