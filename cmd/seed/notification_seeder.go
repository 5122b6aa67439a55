package main

import (
	"log"

	"lingodocs-be/internal/model"

	"gorm.io/gorm"
)

// SeedNotificationTypes populates the event-to-notification registry the
// NATS worker consults.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "USER_LOGIN",
			DisplayName: "Login Activity",
			Template:    "Bạn vừa đăng nhập vào hệ thống",
			TargetType:  "SELF",
			IsActive:    true,
		},
		{
			Code:        "USER_DEACTIVATED",
			DisplayName: "Account Deactivated",
			Template:    "Tài khoản {{user_id}} đã bị vô hiệu hóa ({{reason}})",
			TargetType:  "ADMIN",
			IsActive:    true,
		},
		{
			Code:        "TICKET_CREATED",
			DisplayName: "New Support Ticket",
			Template:    "Yêu cầu hỗ trợ mới: {{subject}}",
			TargetType:  "ADMIN",
			IsActive:    true,
		},
		{
			Code:        "ACCOUNT_REQUEST_CREATED",
			DisplayName: "New Account Request",
			Template:    "Yêu cầu tài khoản mới ({{request_type}})",
			TargetType:  "ADMIN",
			IsActive:    true,
		},
		{
			Code:        "MESSAGE_SENT",
			DisplayName: "New Chat Message",
			Template:    "Tin nhắn mới trong hộp thoại hỗ trợ",
			TargetType:  "ADMIN",
			IsActive:    false, // chat has its own realtime push; off by default
		},
	}

	for _, t := range types {
		var existing model.NotificationType
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			log.Printf("Notification type %q already exists, skipping...", t.Code)
			continue
		}
		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating notification type %q: %v", t.Code, err)
		} else {
			log.Printf("Created notification type: %s", t.Code)
		}
	}
}
