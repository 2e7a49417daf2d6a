package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

// seedFile organization tree with its staff and logins, for example:
//
//	units:
//	  - name: Agência Estadual
//	    users:
//	      - {username: admin, name: Administrador, password: troque-esta-senha, role: admin}
//	    children:
//	      - name: Regional Norte
//	        staff:
//	          - {name: Ana Souza, phone: "69 99999-0000"}
type seedFile struct {
	Units []seedUnit `yaml:"units"`
}

type seedUnit struct {
	Name     string      `yaml:"name"`
	Staff    []seedStaff `yaml:"staff"`
	Users    []seedUser  `yaml:"users"`
	Children []seedUnit  `yaml:"children"`
}

type seedStaff struct {
	Name         string `yaml:"name"`
	Phone        string `yaml:"phone"`
	Registration string `yaml:"registration"`
}

type seedUser struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// seedPlan rows to insert, parents before children
type seedPlan struct {
	Units     []model.Unit
	Staff     []model.StaffMember
	Users     []model.User
	Passwords map[string]string // username → clear password, hashed at insert time
}

func parseSeed(r io.Reader) (*seedFile, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(f.Units) == 0 {
		return nil, fmt.Errorf("seed file has no units")
	}
	return &f, nil
}

// plan assigns ids and flattens the tree depth first
func (f *seedFile) plan() (*seedPlan, error) {
	p := &seedPlan{Passwords: map[string]string{}}
	for i := range f.Units {
		if err := p.addUnit(&f.Units[i], nil, f.Units[i].Name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *seedPlan) addUnit(u *seedUnit, parentID *string, path string) error {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return fmt.Errorf("%s: unit name is required", path)
	}
	id := uuid.NewString()
	p.Units = append(p.Units, model.Unit{UnitID: id, Name: name, ParentID: parentID})

	for _, s := range u.Staff {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%s: staff name is required", path)
		}
		p.Staff = append(p.Staff, model.StaffMember{
			StaffID:      uuid.NewString(),
			UnitID:       id,
			Name:         strings.TrimSpace(s.Name),
			Phone:        s.Phone,
			Registration: s.Registration,
			IsActive:     true,
		})
	}

	for _, usr := range u.Users {
		if usr.Username == "" || usr.Password == "" {
			return fmt.Errorf("%s: users need a username and a password", path)
		}
		if _, dup := p.Passwords[usr.Username]; dup {
			return fmt.Errorf("%s: duplicate username %q", path, usr.Username)
		}
		role := usr.Role
		if role == "" {
			role = policy.RoleMember
		}
		if !policy.IsRole(role) {
			return fmt.Errorf("%s: unknown role %q for %s", path, role, usr.Username)
		}
		name := usr.Name
		if name == "" {
			name = usr.Username
		}
		p.Users = append(p.Users, model.User{
			UserID:   uuid.NewString(),
			Username: usr.Username,
			Name:     name,
			Email:    usr.Email,
			Role:     role,
			UnitID:   id,
			IsActive: true,
		})
		p.Passwords[usr.Username] = usr.Password
	}

	for i := range u.Children {
		child := &u.Children[i]
		if err := p.addUnit(child, &id, path+" / "+child.Name); err != nil {
			return err
		}
	}
	return nil
}
