package mailer

import "fmt"

func VerificationEmail(to, link string) *Message {
	return &Message{
		To:      to,
		Subject: "Verify your EasyRide email",
		Body: fmt.Sprintf("Welcome to EasyRide!\n\nPlease verify your email address by opening the link below:\n\n%s\n\n"+
			"If you did not create an account you can ignore this message.\n", link),
	}
}

// RideAcceptedEmail is sent to the passenger once the driver accepts.
func RideAcceptedEmail(to, rideID, origin, destination, date string) *Message {
	return &Message{
		To:      to,
		Subject: "Your ride has been accepted",
		Body: fmt.Sprintf("Good news! Your booking for the ride from %s to %s on %s has been accepted by the driver.\n\n"+
			"Ride reference: %s\n", origin, destination, date, rideID),
	}
}
