package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/services/pricing"
)

func (s *service) allPhones(c context.Context, forceRefresh bool) ([]Phone, error) {
	return s.cache.Get(c, forceRefresh, func(c context.Context) ([]Phone, error) {
		s.logger.Log(c, "", mylog.SeverityDebug, "Refreshing catalog cache")

		phones, err := s.phoneStore.List(c)
		if err != nil {
			return nil, myerrors.NewInternalError(err)
		}
		sort.SliceStable(phones, func(i, j int) bool {
			return phones[i].CreatedAt.After(phones[j].CreatedAt)
		})
		return phones, nil
	})
}

func (s *service) listPhones(c context.Context, q ListQuery, forceRefresh bool) (PhonePage, error) {
	phones, err := s.allPhones(c, forceRefresh)
	if err != nil {
		return PhonePage{}, err
	}
	return q.apply(append([]Phone{}, phones...)), nil
}

func (s *service) trendingPhones(c context.Context) ([]Phone, error) {
	phones, err := s.allPhones(c, false)
	if err != nil {
		return nil, err
	}
	return trending(phones), nil
}

func (s *service) getPhone(c context.Context, phoneUID string) (Phone, bool, error) {
	err := validatePhoneUID(phoneUID)
	if err != nil {
		return Phone{}, false, err
	}

	phone, found, err := s.phoneStore.Get(c, phoneUID)
	if err != nil {
		return Phone{}, false, myerrors.NewInternalError(err)
	}
	return phone, found, nil
}

func (s *service) getExistingPhone(c context.Context, phoneUID string) (Phone, error) {
	phone, found, err := s.getPhone(c, phoneUID)
	if err != nil {
		return Phone{}, err
	}
	if !found {
		return Phone{}, myerrors.NewNotFoundError(fmt.Errorf("phone with uid %s not found", phoneUID))
	}
	return phone, nil
}

func (s *service) quotePrice(c context.Context, phoneUID string, storage string, ram string) (PriceQuote, error) {
	phone, err := s.getExistingPhone(c, phoneUID)
	if err != nil {
		return PriceQuote{}, err
	}

	return PriceQuote{
		PhoneUID:           phone.UID,
		Storage:            storage,
		RAM:                ram,
		DiscountPercentage: phone.DiscountPercentage,
		Price:              pricing.CalculatePrice(phone.Price, phone.DiscountPercentage, phone.Storage, storage, phone.RAM, ram),
		OriginalPrice:      pricing.CalculateOriginalPrice(phone.Price, phone.Storage, storage, phone.RAM, ram),
	}, nil
}

func (s *service) createPhone(c context.Context, form PhoneForm) (Phone, error) {
	err := form.validateForCreate()
	if err != nil {
		return Phone{}, err
	}
	err = form.validateValues()
	if err != nil {
		return Phone{}, err
	}

	now := s.nower.Now()
	phone := form.applyTo(Phone{
		UID:       newPhoneUID(now),
		CreatedAt: now,
	})
	if phone.ReleaseDate.IsZero() {
		phone.ReleaseDate = now
	}

	s.logger.Log(c, phone.UID, mylog.SeverityInfo, "Creating phone %s %s", phone.Brand, phone.Model)

	err = s.phoneStore.Put(c, phone.UID, phone)
	if err != nil {
		return Phone{}, myerrors.NewInternalError(err)
	}
	s.cache.Clear()

	return phone, nil
}

func (s *service) updatePhone(c context.Context, phoneUID string, form PhoneForm) (Phone, error) {
	err := form.validateValues()
	if err != nil {
		return Phone{}, err
	}

	var phone Phone
	err = s.phoneStore.RunInTransaction(c, func(c context.Context) error {
		existing, err := s.getExistingPhone(c, phoneUID)
		if err != nil {
			return err
		}

		now := s.nower.Now()
		phone = form.applyTo(existing)
		phone.LastModified = &now

		err = s.phoneStore.Put(c, phoneUID, phone)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Phone{}, err
	}

	s.logger.Log(c, phoneUID, mylog.SeverityInfo, "Updated phone %s", phoneUID)
	s.cache.Clear()

	return phone, nil
}

func (s *service) deletePhone(c context.Context, phoneUID string) error {
	err := s.phoneStore.RunInTransaction(c, func(c context.Context) error {
		_, err := s.getExistingPhone(c, phoneUID)
		if err != nil {
			return err
		}
		err = s.phoneStore.Delete(c, phoneUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Log(c, phoneUID, mylog.SeverityInfo, "Deleted phone %s", phoneUID)
	s.cache.Clear()

	return nil
}
