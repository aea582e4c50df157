package main

import (
	"os"

	"studentmanager/internal/config"
	"studentmanager/internal/database"
	"studentmanager/internal/gui"
	"studentmanager/internal/handler"
	"studentmanager/internal/logger"
	"studentmanager/internal/service"

	"fyne.io/fyne/v2/app"
)

const AppID = "ro.studenti.management"

func main() {
	cfg, err := config.Load()
	log := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Error("config", err, nil)
		os.Exit(1)
	}

	// Initialize database
	db, err := database.InitDB(cfg, log)
	if err != nil {
		log.Error("database", err, map[string]interface{}{"path": cfg.DBPath})
		os.Exit(1)
	}
	defer database.Close(db)

	// Initialize services
	studentService := service.NewStudentService(db, log)
	exportService := service.NewExportService(cfg.ExportPath, log)
	chartService := service.NewChartService(cfg.ChartPath, log)
	importService := service.NewImportService(studentService, log)

	a := app.NewWithID(AppID)
	studentHandler := handler.NewStudentHandler(studentService, exportService, chartService, importService, gui.URLOpener{App: a})

	log.Info("main", "application started", nil)
	gui.NewView(a, studentHandler, log).ShowAndRun()
}
