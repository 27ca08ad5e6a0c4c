package main

import (
	"log"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/config"
	"github.com/sanmiguel-edu/colegio-api/internal/database"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// Development fixtures: three grade levels (the last one terminal), one
// ciclo escolar with three trimesters, one section per level and a small
// gradebook so the simulation endpoints return meaningful data.
func main() {
	log.Println("starting development seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.GradeLevel{},
		&models.Section{},
		&models.Student{},
		&models.Subject{},
		&models.Course{},
		&models.Trimester{},
		&models.Task{},
		&models.GradeEntry{},
		&models.PromotionRun{},
		&models.PromotionAuditRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var existing int64
	if err := db.Model(&models.GradeLevel{}).Count(&existing).Error; err != nil {
		log.Fatalf("failed to inspect database: %v", err)
	}
	if existing > 0 {
		log.Println("database already seeded, nothing to do")
		return
	}

	if err := db.Transaction(seed); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("seeding completed")
}

func seed(tx *gorm.DB) error {
	levels := []models.GradeLevel{
		{Name: "Cuarto Bachillerato", Position: 1},
		{Name: "Quinto Bachillerato", Position: 2},
		{Name: "Sexto Bachillerato", Position: 3, Terminal: true},
	}
	if err := tx.Create(&levels).Error; err != nil {
		return err
	}

	sections := []models.Section{
		{Name: "A", GradeLevelID: levels[0].ID},
		{Name: "A", GradeLevelID: levels[1].ID},
		{Name: "A", GradeLevelID: levels[2].ID},
	}
	if err := tx.Create(&sections).Error; err != nil {
		return err
	}

	ciclo := "2026"
	trimesters := []models.Trimester{
		{Name: "Primer Trimestre", Position: 1, CicloEscolar: ciclo},
		{Name: "Segundo Trimestre", Position: 2, CicloEscolar: ciclo},
		{Name: "Tercer Trimestre", Position: 3, CicloEscolar: ciclo},
	}
	if err := tx.Create(&trimesters).Error; err != nil {
		return err
	}

	subjects := []models.Subject{
		{Name: "Matemática"},
		{Name: "Comunicación y Lenguaje"},
	}
	if err := tx.Create(&subjects).Error; err != nil {
		return err
	}

	students := []models.Student{
		{Carnet: "2026-0001", Name: "María García", Status: models.StudentStatusActive, GradeLevelID: &levels[0].ID, SectionID: &sections[0].ID},
		{Carnet: "2026-0002", Name: "José López", Status: models.StudentStatusActive, GradeLevelID: &levels[0].ID, SectionID: &sections[0].ID},
		{Carnet: "2026-0003", Name: "Ana Martínez", Status: models.StudentStatusActive, GradeLevelID: &levels[2].ID, SectionID: &sections[2].ID},
		{Carnet: "2026-0004", Name: "Carlos Pérez", Status: models.StudentStatusActive},
	}
	if err := tx.Create(&students).Error; err != nil {
		return err
	}

	courses := []models.Course{
		{SubjectID: subjects[0].ID, SectionID: sections[0].ID},
		{SubjectID: subjects[1].ID, SectionID: sections[0].ID},
		{SubjectID: subjects[0].ID, SectionID: sections[2].ID},
	}
	if err := tx.Create(&courses).Error; err != nil {
		return err
	}

	tasks := []models.Task{
		{Title: "Examen parcial", CourseID: courses[0].ID, TrimesterID: trimesters[0].ID, MaxPoints: 50},
		{Title: "Proyecto", CourseID: courses[0].ID, TrimesterID: trimesters[0].ID, MaxPoints: 50},
		{Title: "Examen parcial", CourseID: courses[1].ID, TrimesterID: trimesters[0].ID, MaxPoints: 100},
		{Title: "Examen final", CourseID: courses[2].ID, TrimesterID: trimesters[0].ID, MaxPoints: 100},
	}
	if err := tx.Create(&tasks).Error; err != nil {
		return err
	}

	entries := []models.GradeEntry{
		{TaskID: tasks[0].ID, StudentID: students[0].ID, Points: ptr(45)},
		{TaskID: tasks[1].ID, StudentID: students[0].ID, Points: ptr(40)},
		{TaskID: tasks[2].ID, StudentID: students[0].ID, Points: ptr(92)},
		{TaskID: tasks[0].ID, StudentID: students[1].ID, Points: ptr(20)},
		// tasks[1] deliberately left ungraded for the second student
		{TaskID: tasks[2].ID, StudentID: students[1].ID, Points: ptr(55)},
		{TaskID: tasks[3].ID, StudentID: students[2].ID, Points: ptr(88)},
	}
	return tx.Create(&entries).Error
}

func ptr(v float64) *float64 {
	return &v
}
