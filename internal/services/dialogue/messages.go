package dialogue

import "fmt"

const (
	promptCity          = "Which city are we searching in?"
	promptPriceRange    = "What price range per night? Send two whole numbers like <code>1000-5000</code>"
	promptDistanceRange = "How far from the city center, in km? Send a range like <code>0.5-3</code>"

	msgUnknownLanguage   = "Invalid input: could not determine the language of the message. Try again."
	msgNoDestination     = "Invalid input: no matching destination was found. Try something else."
	msgMalformedPrice    = "Invalid input: a range of two whole numbers like <code>1000-5000</code> is required."
	msgPriceOrder        = "Invalid input: the minimum price must be less than the maximum."
	msgMalformedDistance = "Invalid input: a range like <code>0.5-3</code> is required."
	msgDistanceOrder     = "Invalid input: the minimum distance must be less than the maximum."
	msgNotANumber        = "Invalid input: a number is required."
	msgConnectionError   = "A connection error occurred while talking to Hotels.com. Try again."
	msgSearchFailed      = "Something went wrong while searching. Try again later."
	msgSearching         = "Searching…"
	msgDeliveryError     = "Failed to send one of the results."
	msgNothingFoundFmt   = "Nothing was found for your request.\nTry different search parameters: /%s"
	msgOutOfRangeFmt     = "Invalid input: the number must be between %d and %d inclusive."
)

func promptResultCount(max int) string {
	return fmt.Sprintf("I can show up to %d hotels. How many do you want to see?", max)
}

func promptPhotoCount(max int) string {
	return fmt.Sprintf("I can show up to %d photos per hotel. How many do you want?\nIf you don't need photos, send <code>0</code>", max)
}
