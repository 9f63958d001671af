package auth

import (
	"errors"
	"strings"
)

const minPasswordLength = 8

type SignupDTO struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

func (dto SignupDTO) Validate() error {
	if strings.TrimSpace(dto.FullName) == "" {
		return errors.New("full_name is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(dto.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(dto.CompanyName) == "" {
		return errors.New("company_name is required")
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return errors.New("refresh_token is required")
	}
	return nil
}
