package main

import (
	"time"

	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/common/config"
	"placement-analytics/internal/reporting"
	"placement-analytics/pkg/registry"

	companyanalytics "placement-analytics/internal/workers/analytics/company-analytics"
	companycandidatesources "placement-analytics/internal/workers/analytics/company-candidate-sources"
	companyhiringtrends "placement-analytics/internal/workers/analytics/company-hiring-trends"
	companyskilldemand "placement-analytics/internal/workers/analytics/company-skill-demand"
	comparativedriveanalytics "placement-analytics/internal/workers/analytics/comparative-drive-analytics"
	driveanalytics "placement-analytics/internal/workers/analytics/drive-analytics"
	instituteanalytics "placement-analytics/internal/workers/analytics/institute-analytics"
	publishanalyticsreport "placement-analytics/internal/workers/analytics/publish-analytics-report"
	searchanalyticssnapshots "placement-analytics/internal/workers/analytics/search-analytics-snapshots"
)

// workerSettings resolves the activation settings and handler timeout for a
// task type. An entry in the workers config wins, then the registry timeout,
// then the handler's own default.
func workerSettings(cfg *config.Config, reg *registry.ActivityRegistry, taskType string, fallback time.Duration) (config.WorkerConfig, time.Duration) {
	wcfg := config.GetWorkerConfig(cfg, taskType)
	if _, ok := cfg.Workers[taskType]; ok {
		return wcfg, config.GetDuration(wcfg.Timeout)
	}
	if a, ok := reg.Activity(taskType); ok {
		if d, err := a.TimeoutDuration(); err == nil && d > 0 {
			fallback = d
		}
	}
	wcfg.Timeout = int(fallback.Milliseconds())
	return wcfg, fallback
}

func registerWorkers(w *camunda.Workers, cfg *config.Config, reg *registry.ActivityRegistry, reports *reporting.Service, svc *services, deps camunda.Deps) int {
	settings := func(taskType string, fallback time.Duration) (config.WorkerConfig, time.Duration) {
		return workerSettings(cfg, reg, taskType, fallback)
	}

	// --- Company reports ---
	{
		c := companyanalytics.LoadConfig()
		wcfg, timeout := settings(companyanalytics.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(companyanalytics.TaskType, wcfg, companyanalytics.NewHandler(c, reports, deps))
	}
	{
		c := companyhiringtrends.LoadConfig()
		wcfg, timeout := settings(companyhiringtrends.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(companyhiringtrends.TaskType, wcfg, companyhiringtrends.NewHandler(c, reports, deps))
	}
	{
		c := companyskilldemand.LoadConfig()
		wcfg, timeout := settings(companyskilldemand.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(companyskilldemand.TaskType, wcfg, companyskilldemand.NewHandler(c, reports, deps))
	}
	{
		c := companycandidatesources.LoadConfig()
		wcfg, timeout := settings(companycandidatesources.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(companycandidatesources.TaskType, wcfg, companycandidatesources.NewHandler(c, reports, deps))
	}

	// --- Drive and institute reports ---
	{
		c := driveanalytics.LoadConfig()
		wcfg, timeout := settings(driveanalytics.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(driveanalytics.TaskType, wcfg, driveanalytics.NewHandler(c, reports, deps))
	}
	{
		c := comparativedriveanalytics.LoadConfig()
		wcfg, timeout := settings(comparativedriveanalytics.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(comparativedriveanalytics.TaskType, wcfg, comparativedriveanalytics.NewHandler(c, reports, deps))
	}
	{
		c := instituteanalytics.LoadConfig()
		wcfg, timeout := settings(instituteanalytics.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(instituteanalytics.TaskType, wcfg, instituteanalytics.NewHandler(c, reports, deps))
	}

	// --- Snapshots and notifications ---
	if svc.indexer != nil {
		c := searchanalyticssnapshots.LoadConfig()
		wcfg, timeout := settings(searchanalyticssnapshots.TaskType, c.Timeout)
		c.Timeout = timeout
		w.Start(searchanalyticssnapshots.TaskType, wcfg, searchanalyticssnapshots.NewHandler(c, svc.indexer, deps))
	}
	{
		c := publishanalyticsreport.LoadConfig()
		wcfg, timeout := settings(publishanalyticsreport.TaskType, c.Timeout)
		c.Timeout = timeout
		c.Enabled = cfg.Notifications.SNS.Enabled
		w.Start(publishanalyticsreport.TaskType, wcfg, publishanalyticsreport.NewHandler(c, svc.publisher, deps))
	}

	return w.Running()
}
