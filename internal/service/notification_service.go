package service

import (
	"context"
	"encoding/json"
	"fmt"

	"shere/internal/domain"
	"shere/internal/models"
	"shere/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyPurchaseApproved(userID uint, purchaseID uint, percentage float64, newShare float64) error {
	return s.Notify(userID, domain.NotifPurchaseApproved, "Share purchase approved",
		fmt.Sprintf("Your %.1f%% purchase was approved. Your stake is now %.1f%%.", percentage, newShare),
		map[string]interface{}{"purchase_id": purchaseID})
}

func (s *NotificationService) NotifyPurchaseRejected(userID uint, purchaseID uint, reason string) error {
	body := "Your share purchase was rejected."
	if reason != "" {
		body += " Reason: " + reason
	}
	return s.Notify(userID, domain.NotifPurchaseRejected, "Share purchase rejected", body,
		map[string]interface{}{"purchase_id": purchaseID})
}

func (s *NotificationService) NotifyWithdrawalApproved(userID uint, withdrawalID uint, amount int64) error {
	return s.Notify(userID, domain.NotifWithdrawalApproved, "Withdrawal sent",
		fmt.Sprintf("Your withdrawal of %d FCFA was approved and sent to your mobile money account.", amount),
		map[string]interface{}{"withdrawal_id": withdrawalID, "amount_fcfa": amount})
}

func (s *NotificationService) NotifyWithdrawalRejected(userID uint, withdrawalID uint, reason string) error {
	body := "Your withdrawal was rejected."
	if reason != "" {
		body += " Reason: " + reason
	}
	return s.Notify(userID, domain.NotifWithdrawalRejected, "Withdrawal rejected", body,
		map[string]interface{}{"withdrawal_id": withdrawalID})
}

func (s *NotificationService) NotifyCommissionEarned(referrerID uint, commission int64, fromName string) error {
	return s.Notify(referrerID, domain.NotifCommissionEarned, "Commission earned",
		fmt.Sprintf("You earned %d FCFA commission from %s's share purchase.", commission, fromName),
		map[string]interface{}{"amount_fcfa": commission})
}
