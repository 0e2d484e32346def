package user

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет тип учётной записи.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Profile — встроенный профиль кандидата: резюме, навыки, подписка на рассылку.
type Profile struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	ResumeURL          string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resumeOriginalName,omitempty"`
	ResumeText         string   `json:"-"`
	ProfilePhotoURL    string   `json:"profilePhoto"`
	JobAlerts          bool     `json:"jobAlerts"`
}

// User is a domain entity representing a system user of any role.
type User struct {
	ID           uuid.UUID  `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phoneNumber"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsBlocked    bool       `json:"isBlocked"`
	CompanyID    *uuid.UUID `json:"company,omitempty"`
	Profile      Profile    `json:"profile"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SavedJob — сохранённая вакансия в списке избранного кандидата.
type SavedJob struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	JobType     string    `json:"jobType"`
	Salary      float64   `json:"salary"`
	IsOpen      bool      `json:"isOpen"`
	CompanyName string    `json:"companyName"`
	CompanyLogo string    `json:"companyLogo"`
}
