package customer

import (
	"strconv"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/phone"
)

// Metadata keys written on every registration customer.
const (
	MetaFirstName         = "contact_firstname"
	MetaLastName          = "contact_lastname"
	MetaEmail             = "contact_email"
	MetaPhone             = "contact_phone"
	MetaEmployees         = "num_employees"
	MetaReferralCode      = "referral_code"
	MetaOptedEmail        = "has_opted_for_email_contact"
	MetaOptedPhone        = "has_opted_for_phone_contact"
	MetaOptedText         = "has_opted_for_text_contact"
	MetaOptedPost         = "has_opted_for_post_contact"
	MetaOriginPortal      = "origin_portal"
	MetaIsBacsPayment     = "initialSubscriptionIsBacsPayment"
	MetaBacsPriceID       = "initialSubscriptionPriceId"
	PurchaseOrderField    = "Purchase order no."
	EmptyReferralCode     = "empty"
	referralSearchPattern = `metadata["referral_code"]:"%s"`
)

// ReferralCode returns the stored form of the referral code; absent codes become "empty".
func ReferralCode(details *models.RegistrationDetails) string {
	code := models.Deref(details.ReferralCode)
	if code == "" {
		return EmptyReferralCode
	}
	return code
}

// BillingAddress picks the company address, or the billing address when it differs.
// Missing billing lines are sent as empty strings.
func BillingAddress(details *models.RegistrationDetails) *billing.Address {
	if !details.IsDifferentAddress {
		return companyAddress(details)
	}
	return &billing.Address{
		Line1:      models.Deref(details.BillingAddressLine1),
		Line2:      models.Deref(details.BillingAddressLine2),
		City:       models.Deref(details.BillingTownCity),
		State:      models.Deref(details.BillingCounty),
		PostalCode: models.Deref(details.BillingPostcode),
	}
}

func companyAddress(details *models.RegistrationDetails) *billing.Address {
	return &billing.Address{
		Line1:      details.CompanyAddressLine1,
		Line2:      details.CompanyAddressLine2,
		City:       details.CompanyTownCity,
		State:      details.CompanyCounty,
		PostalCode: details.CompanyPostcode,
	}
}

func purchaseOrderFields(details *models.RegistrationDetails) []billing.CustomField {
	if !details.HasPurchaseOrderNumber {
		return nil
	}
	return []billing.CustomField{{Name: PurchaseOrderField, Value: models.Deref(details.PurchaseOrderNumber)}}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func contactMetadata(details *models.RegistrationDetails, normalizedPhone string) map[string]string {
	md := map[string]string{
		MetaFirstName:    details.FirstName,
		MetaLastName:     details.LastName,
		MetaEmail:        details.Email,
		MetaEmployees:    strconv.Itoa(details.NumberOfEmployees),
		MetaReferralCode: ReferralCode(details),
		MetaOptedEmail:   yesNo(details.HasOptedForEmailContact),
		MetaOptedPhone:   yesNo(details.HasOptedForPhoneContact),
		MetaOptedText:    yesNo(details.HasOptedForTextContact),
		MetaOptedPost:    yesNo(details.HasOptedForPostContact),
		MetaOriginPortal: details.OriginPortal,
	}
	if normalizedPhone != "" {
		md[MetaPhone] = "+" + normalizedPhone
	}
	return md
}

// NewCustomerFields shapes a registration into a customer create request.
// priceID is stamped as the initial BACS price when non-empty.
func NewCustomerFields(details *models.RegistrationDetails, priceID string) *billing.CustomerFields {
	number := phone.NormalizeUKMobile(details.MobileNumber)

	md := contactMetadata(details, number)
	md[MetaIsBacsPayment] = "false"
	if priceID != "" {
		md[MetaIsBacsPayment] = "true"
		md[MetaBacsPriceID] = priceID
	}

	return &billing.CustomerFields{
		Name:    details.CompanyName,
		Address: BillingAddress(details),
		Shipping: &billing.Shipping{
			Address: *companyAddress(details),
			Name:    details.FirstName + " " + details.LastName,
			Phone:   "+" + number,
		},
		CustomFields: purchaseOrderFields(details),
		Metadata:     md,
	}
}

// UpdateCustomerFields shapes a registration into a customer update request.
func UpdateCustomerFields(details *models.RegistrationDetails) *billing.CustomerFields {
	number := phone.NormalizeUKMobile(details.MobileNumber)

	md := contactMetadata(details, number)
	md[MetaIsBacsPayment] = strconv.FormatBool(details.Bacs)

	return &billing.CustomerFields{
		Address:      BillingAddress(details),
		CustomFields: purchaseOrderFields(details),
		Metadata:     md,
	}
}
