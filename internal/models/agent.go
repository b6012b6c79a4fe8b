package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AgentRole represents an agent's function in the field hierarchy
type AgentRole string

const (
	AgentRoleCobrador    AgentRole = "COBRADOR"
	AgentRoleCabo        AgentRole = "CABO"
	AgentRoleCapitalista AgentRole = "CAPITALISTA"
	AgentRoleBolador     AgentRole = "BOLADOR"
	AgentRolePagador     AgentRole = "PAGADOR"
)

// AgentStatus represents an agent's standing
type AgentStatus string

const (
	AgentStatusActive     AgentStatus = "ACTIVE"
	AgentStatusSuspended  AgentStatus = "SUSPENDED"
	AgentStatusTerminated AgentStatus = "TERMINATED"
)

// Agent represents a field agent account
type Agent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Name      string              `bson:"name" json:"name"`
	Role      AgentRole           `bson:"role" json:"role"`
	Status    AgentStatus         `bson:"status" json:"status"`
	CaboID    *primitive.ObjectID `bson:"caboId,omitempty" json:"caboId,omitempty"` // supervising cabo, for cobradores
	Area      string              `bson:"area,omitempty" json:"area,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
